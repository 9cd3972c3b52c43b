package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html"
	htmltemplate "html/template"
	"regexp"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var builtinFS embed.FS

// TemplateData is what every template sees.
type TemplateData struct {
	App         string
	FrontendURL string
	Data        any
}

// TemplateSource returns the active stored template for a mail type, if any.
type TemplateSource interface {
	ActiveTemplate(ctx context.Context, mailType string) (subject, body string, found bool, err error)
}

type builtin struct {
	subject *texttemplate.Template
	body    *htmltemplate.Template
}

type Renderer struct {
	App         string
	FrontendURL string
	Source      TemplateSource

	once     sync.Once
	builtins map[string]builtin
	loadErr  error
}

func NewRenderer(app, frontendURL string, source TemplateSource) *Renderer {
	return &Renderer{App: app, FrontendURL: strings.TrimSuffix(frontendURL, "/"), Source: source}
}

func (r *Renderer) load() {
	r.once.Do(func() {
		r.builtins = map[string]builtin{}
		entries, err := builtinFS.ReadDir("templates")
		if err != nil {
			r.loadErr = err
			return
		}
		for _, e := range entries {
			name := strings.TrimSuffix(e.Name(), ".html")
			raw, err := builtinFS.ReadFile("templates/" + e.Name())
			if err != nil {
				r.loadErr = err
				return
			}
			subj, err := texttemplate.New(name).Parse(string(raw))
			if err != nil {
				r.loadErr = errors.Wrapf(err, "parse builtin %s", name)
				return
			}
			body, err := htmltemplate.New(name).Parse(string(raw))
			if err != nil {
				r.loadErr = errors.Wrapf(err, "parse builtin %s", name)
				return
			}
			r.builtins[name] = builtin{subject: subj, body: body}
		}
	})
}

// HasBuiltin reports whether a default template ships for mailType.
func (r *Renderer) HasBuiltin(mailType string) bool {
	r.load()
	_, ok := r.builtins[mailType]
	return ok
}

// Builtin returns the subject and body source of an embedded template, in the form
// stored templates use.
func Builtin(mailType string) (subject, body string, ok bool) {
	raw, err := builtinFS.ReadFile("templates/" + mailType + ".html")
	if err != nil {
		return "", "", false
	}
	t, err := texttemplate.New(mailType).Parse(string(raw))
	if err != nil {
		return "", "", false
	}
	st, bt := t.Lookup("subject"), t.Lookup("body")
	if st == nil || bt == nil || st.Tree == nil || bt.Tree == nil {
		return "", "", false
	}
	return strings.TrimSpace(st.Tree.Root.String()), strings.TrimSpace(bt.Tree.Root.String()), true
}

// Render prefers the active stored template and falls back to the embedded default.
func (r *Renderer) Render(ctx context.Context, mailType string, to []Recipient, data any) (Message, error) {
	td := TemplateData{App: r.App, FrontendURL: r.FrontendURL, Data: data}

	if r.Source != nil {
		subject, body, found, err := r.Source.ActiveTemplate(ctx, mailType)
		if err != nil {
			return Message{}, errors.Wrap(err, "lookup mail template")
		}
		if found {
			s, h, err := RenderStrings(subject, body, td)
			if err != nil {
				return Message{}, err
			}
			return newMessage(to, s, h), nil
		}
	}

	r.load()
	if r.loadErr != nil {
		return Message{}, r.loadErr
	}
	b, ok := r.builtins[mailType]
	if !ok {
		return Message{}, fmt.Errorf("no template for mail type %q", mailType)
	}
	var subj, body bytes.Buffer
	if err := b.subject.ExecuteTemplate(&subj, "subject", td); err != nil {
		return Message{}, errors.Wrapf(err, "render %s subject", mailType)
	}
	if err := b.body.ExecuteTemplate(&body, "body", td); err != nil {
		return Message{}, errors.Wrapf(err, "render %s body", mailType)
	}
	return newMessage(to, subj.String(), body.String()), nil
}

// RenderStrings renders a stored subject/body pair.
func RenderStrings(subject, body string, td TemplateData) (string, string, error) {
	st, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", "", errors.Wrap(err, "parse subject")
	}
	bt, err := htmltemplate.New("body").Parse(body)
	if err != nil {
		return "", "", errors.Wrap(err, "parse body")
	}
	var s, b bytes.Buffer
	if err := st.Execute(&s, td); err != nil {
		return "", "", errors.Wrap(err, "render subject")
	}
	if err := bt.Execute(&b, td); err != nil {
		return "", "", errors.Wrap(err, "render body")
	}
	return strings.TrimSpace(s.String()), b.String(), nil
}

// Recipient is a name and address pair; it converts into net/mail addresses.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newMessage(to []Recipient, subject, body string) Message {
	msg := Message{Subject: strings.TrimSpace(subject), HTML: strings.TrimSpace(body), Text: HTMLToText(body)}
	for _, r := range to {
		msg.To = append(msg.To, To(r.Name, r.Email)...)
	}
	return msg
}

var (
	tagRe   = regexp.MustCompile(`(?s)<[^>]*>`)
	breakRe = regexp.MustCompile(`(?i)<br\s*/?>|</p>`)
	spaceRe = regexp.MustCompile(`[ \t]+`)
	blankRe = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText produces the plain-text alternative of a rendered body.
func HTMLToText(s string) string {
	s = breakRe.ReplaceAllString(s, "\n")
	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = spaceRe.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(blankRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
