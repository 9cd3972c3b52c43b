package mailer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	subject, body string
	found         bool
}

func (f fakeSource) ActiveTemplate(context.Context, string) (string, string, bool, error) {
	return f.subject, f.body, f.found, nil
}

func TestRenderer_Builtin(t *testing.T) {
	r := NewRenderer("AcademyKit", "https://lms.example.com/", nil)
	msg, err := r.Render(context.Background(), "ForgotPassword",
		[]Recipient{{Name: "Ada", Email: "ada@example.com"}},
		map[string]any{"Name": "Ada", "Token": "123456", "ExpiresInMinutes": 15})
	require.NoError(t, err)

	assert.Equal(t, "Password reset code", msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>123456</strong>")
	assert.Contains(t, msg.Text, "Your password reset code is 123456")
	require.Len(t, msg.To, 1)
	assert.Equal(t, "ada@example.com", msg.To[0].Address)
}

func TestRenderer_StoredTemplateWins(t *testing.T) {
	src := fakeSource{subject: "Welcome {{.Data.Name}} & co", body: "<p>{{.Data.Name}} <b>joined</b> {{.App}}</p>", found: true}
	r := NewRenderer("AcademyKit", "", src)
	msg, err := r.Render(context.Background(), "UserCreate", nil, map[string]any{"Name": "<Bob>"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome <Bob> & co", msg.Subject)
	assert.Contains(t, msg.HTML, "&lt;Bob&gt;")
	assert.Equal(t, "<Bob> joined AcademyKit", msg.Text)
}

func TestRenderer_UnknownType(t *testing.T) {
	r := NewRenderer("AcademyKit", "", fakeSource{})
	_, err := r.Render(context.Background(), "Nope", nil, nil)
	assert.Error(t, err)
	assert.True(t, r.HasBuiltin("CertificateIssued"))
}

func TestConsoleSender_SkipsEmpty(t *testing.T) {
	s := NewConsole(To("AcademyKit", "noreply@example.com")[0], "AcademyKit")
	require.NoError(t, s.SendMessages(context.Background(),
		Message{To: To("Ada", "ada@example.com"), Subject: "hi", Text: "hello"},
		Message{Subject: "no recipients", Text: "x"},
	))
	assert.Len(t, s.Messages(), 1)
}

func TestSendgridSender_PostsV3Mail(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s := NewSendgrid("key-123", "AcademyKit", "", "noreply@example.com").WithHost(srv.URL)
	err := s.SendMessages(context.Background(), Message{To: To("Ada", "ada@example.com"), Subject: "Hello", HTML: "<p>x</p>"})
	require.NoError(t, err)

	pers := got["personalizations"].([]any)[0].(map[string]any)
	assert.Equal(t, "[AcademyKit] Hello", pers["subject"])
}

func TestSendgridSender_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewSendgrid("k", "AcademyKit", "", "noreply@example.com").WithHost(srv.URL)
	err := s.SendMessages(context.Background(), Message{To: To("Ada", "ada@example.com"), Subject: "x", Text: "x"})
	assert.Error(t, err)
}

type captureQueue struct {
	topic   string
	payload any
}

func (c *captureQueue) Enqueue(_ context.Context, topic string, payload any) error {
	c.topic, c.payload = topic, payload
	return nil
}

func TestEnqueueAndHandle(t *testing.T) {
	q := &captureQueue{}
	Enqueue(context.Background(), q, "TestMessage", Recipient{Name: "Ada", Email: "ada@example.com"}, map[string]any{"Name": "Ada"})
	require.Equal(t, TopicSend, q.topic)

	payload, err := json.Marshal(q.payload)
	require.NoError(t, err)

	sender := NewConsole(To("", "noreply@example.com")[0], "AcademyKit")
	h := Handler(NewRenderer("AcademyKit", "", nil), sender)
	require.NoError(t, h(context.Background(), payload))
	require.Len(t, sender.Messages(), 1)
	assert.Equal(t, "Test message from AcademyKit", sender.Messages()[0].Subject)
}

func TestBuiltinSourceRendersLikeTheEmbeddedTemplate(t *testing.T) {
	subject, body, ok := Builtin("CourseReview")
	require.True(t, ok)
	assert.Contains(t, subject, "{{.Data.CourseName}}")

	data := map[string]any{"Name": "Ann", "CourseName": "Safety", "RequestedBy": "Bob", "Message": "please check"}
	s, h, err := RenderStrings(subject, body, TemplateData{App: "AcademyKit", Data: data})
	require.NoError(t, err)

	want, err := NewRenderer("AcademyKit", "", nil).Render(context.Background(), "CourseReview", nil, data)
	require.NoError(t, err)
	assert.Equal(t, want.Subject, s)
	assert.Equal(t, strings.TrimSpace(want.HTML), strings.TrimSpace(h))

	_, _, ok = Builtin("Nope")
	assert.False(t, ok)
}
