package grading

import (
	"fmt"
	"strings"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
)

// OptionInput is the editable shape of a choice option.
type OptionInput struct {
	Option    string
	IsCorrect bool
}

// ValidateOptions enforces the choice question rules: at least two non-empty options,
// exactly one correct for single choice, at least one for multiple choice.
// Other question types must not carry options.
func ValidateOptions(questionType string, opts []OptionInput) error {
	if !constants.Contains(constants.ChoiceQuestions, questionType) {
		if len(opts) > 0 {
			return helper.ErrFieldValidation("options", "only choice questions take options")
		}
		return nil
	}
	if len(opts) < 2 {
		return helper.ErrFieldValidation("options", "at least two options are required")
	}
	correct := 0
	for i, o := range opts {
		if strings.TrimSpace(o.Option) == "" {
			return helper.ErrFieldValidation(fmt.Sprintf("options[%d].option", i), "option text is required")
		}
		if o.IsCorrect {
			correct++
		}
	}
	switch questionType {
	case constants.QuestionSingleChoice:
		if correct != 1 {
			return helper.ErrFieldValidation("options", "single choice requires exactly one correct option")
		}
	case constants.QuestionMultipleChoice:
		if correct < 1 {
			return helper.ErrFieldValidation("options", "multiple choice requires at least one correct option")
		}
	}
	return nil
}
