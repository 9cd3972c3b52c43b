package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const DefaultSlugMaxLen = 250

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify lowercases, strips diacritics, keeps [a-z0-9-] and falls back to "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultSlugMaxLen
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = reNonAlnum.ReplaceAllString(string(buf), "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// SlugScope narrows the uniqueness check; nil means table-wide.
type SlugScope func(*gorm.DB) *gorm.DB

// ExcludeID skips the row being updated.
func ExcludeID(column string, id uuid.UUID) SlugScope {
	return func(q *gorm.DB) *gorm.DB { return q.Where(column+" <> ?", id) }
}

// EnsureUniqueSlugCI returns base, or base-2, base-3... whichever is free (case-insensitive).
func EnsureUniqueSlugCI(
	ctx context.Context,
	db *gorm.DB,
	table string,
	column string,
	base string,
	scope SlugScope,
	maxLen int,
) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultSlugMaxLen
	}
	base = Slugify(base, maxLen)
	slug := base

	for i := 0; i < 50; i++ {
		q := db.WithContext(ctx).Table(table)
		if scope != nil {
			q = scope(q)
		}
		var count int64
		if err := q.Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(slug)).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", i+2)
		slug = trimForSuffix(base, suffix, maxLen) + suffix
	}

	r := fmt.Sprintf("-%x", time.Now().UnixNano()&0xffffff)
	return trimForSuffix(base, r, maxLen) + r, nil
}

func trimForSuffix(base, suffix string, maxLen int) string {
	keep := maxLen - len(suffix)
	if keep < 1 {
		return "x"
	}
	rs := []rune(base)
	if len(rs) > keep {
		rs = rs[:keep]
	}
	out := strings.Trim(string(rs), "-")
	if out == "" {
		out = "x"
	}
	return out
}

// IdentityWhere matches a row by uuid id or by slug.
func IdentityWhere(q *gorm.DB, idColumn, slugColumn, identity string) *gorm.DB {
	identity = strings.TrimSpace(identity)
	if id, err := uuid.Parse(identity); err == nil {
		return q.Where(idColumn+" = ?", id)
	}
	return q.Where("LOWER("+slugColumn+") = ?", strings.ToLower(identity))
}
