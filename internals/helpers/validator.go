package helper

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func init() {
	Validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegex.MatchString(fl.Field().String())
	})
	registerTranslation("slug", "{0} may only contain lowercase letters, digits and hyphens")

	_ = Validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	registerTranslation("password", "{0} must be at least 8 characters and contain a letter and a digit")
}

func registerTranslation(tag, text string) {
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// TranslateValidationErrors keys messages by the json field path.
func TranslateValidationErrors(ve validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(ve))
	for _, fe := range ve {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		if key == "" {
			key = fe.Field()
		}
		out[key] = append(out[key], fe.Translate(Translator))
	}
	return out
}

// ValidateStruct returns a 422 AppError when v fails its validate tags.
func ValidateStruct(v any) error {
	if err := Validate.Struct(v); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return ErrValidation(TranslateValidationErrors(ve))
		}
		return ErrBadRequest(err.Error())
	}
	return nil
}

type normalizer interface{ Normalize() }

// BindAndValidate parses the JSON body into dst, normalizes it and validates it.
func BindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return ErrBadRequest("invalid request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return ValidateStruct(dst)
}
