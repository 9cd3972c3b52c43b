package helper

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"Intro to Go", 0, "intro-to-go"},
		{"  Café  Déjà vu!! ", 0, "cafe-deja-vu"},
		{"---", 0, "item"},
		{"a very long title", 6, "a-very"},
		{"Multiple   spaces__and__underscores", 0, "multiple-spaces-and-underscores"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in, tt.maxLen))
		})
	}
}

func TestTrimForSuffix(t *testing.T) {
	assert.Equal(t, "abc", trimForSuffix("abcdef", "-2", 5))
	assert.Equal(t, "x", trimForSuffix("abc", "-1234", 3))
}

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Slug     string `json:"slug" validate:"omitempty,slug"`
	Password string `json:"password" validate:"omitempty,password"`
}

func TestValidateStruct(t *testing.T) {
	err := ValidateStruct(sample{Email: "bad", Slug: "Not A Slug", Password: "short"})
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, fiber.StatusUnprocessableEntity, appErr.Status)
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "slug")
	assert.Contains(t, appErr.Fields, "password")

	assert.NoError(t, ValidateStruct(sample{Email: "a@b.co", Slug: "go-101", Password: "secret123"}))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", gorm.ErrRecordNotFound, fiber.StatusNotFound},
		{"wrapped not found", errors.Wrap(gorm.ErrRecordNotFound, "load course"), fiber.StatusNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, fiber.StatusConflict},
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{"forbidden", ErrForbidden("no"), fiber.StatusForbidden},
		{"validation", ErrFieldValidation("name", "required"), fiber.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err).Status)
		})
	}
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/missing", func(c *fiber.Ctx) error { return gorm.ErrRecordNotFound })
	app.Get("/invalid", func(c *fiber.Ctx) error { return ValidateStruct(sample{}) })
	app.Get("/boom", func(c *fiber.Ctx) error { return ErrService("could not save", errors.New("secret detail")) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, resp.Body)["error_code"])

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/invalid", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["errors"], "email")

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body = decodeBody(t, resp.Body)
	assert.Equal(t, "could not save", body["message"])
}

func TestParseFiber(t *testing.T) {
	app := fiber.New()
	var got Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseFiber(c, "created_on", "desc", DefaultOpts)
		return nil
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/?page=3&limit=500&search=Go&sort_by=name&order=ASC", nil))
	require.NoError(t, err)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 200, got.PerPage)
	assert.Equal(t, 400, got.Offset())
	assert.Equal(t, "%go%", got.SearchLike())
	assert.Equal(t, "asc", got.SortOrder)

	allowed := map[string]string{"name": "course_name", "created_on": "created_on"}
	assert.Equal(t, "course_name ASC", got.OrderClause(allowed, "created_on"))
	got.SortBy = "password; drop table"
	assert.Equal(t, "created_on ASC", got.OrderClause(allowed, "created_on"))
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := BuildPaginationFromPage(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestPatchField(t *testing.T) {
	var req struct {
		Name PatchField[string] `json:"name"`
		Desc PatchField[string] `json:"desc"`
		Bio  PatchField[string] `json:"bio"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Go","desc":null}`), &req))

	name := "old"
	req.Name.Apply(&name)
	assert.Equal(t, "Go", name)

	desc := StrPtr("old desc")
	req.Desc.ApplyNullable(&desc)
	assert.Nil(t, desc)

	bio := StrPtr("keep")
	req.Bio.ApplyNullable(&bio)
	assert.Equal(t, "keep", *bio)
}

func TestGetRawAccessToken(t *testing.T) {
	app := fiber.New()
	var tok string
	app.Get("/", func(c *fiber.Ctx) error {
		tok = GetRawAccessToken(c)
		return nil
	})
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer   abc.def.ghi")
	_, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)
}
