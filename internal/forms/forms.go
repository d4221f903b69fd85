// Package forms holds the dashboard's input forms. Each form validates locally
// and only then converts into the payload a resource service sends.
package forms

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/facilitator-console/internal/platform/validate"
)

const (
	afterStartTag = "after_start"
	fileOrURLTag  = "file_or_url"
	otpTag        = "otp"
	maxMarksTag   = "max_marks"
)

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

func init() {
	validate.RegisterCustomTranslation(afterStartTag, "must be after the start time")
	validate.RegisterCustomTranslation(fileOrURLTag, "provide either a file or a link, not both")
	validate.RegisterCustomTranslation(maxMarksTag, "cannot exceed the assignment's total marks")

	validate.RegisterValidation(otpTag, func(fl validator.FieldLevel) bool {
		return otpPattern.MatchString(fl.Field().String())
	})
	validate.RegisterCustomTranslation(otpTag, "enter the 6-digit code")

	validate.RegisterStructValidation(liveClassRules, LiveClassForm{})
	validate.RegisterStructValidation(libraryItemRules, LibraryItemForm{})
	validate.RegisterStructValidation(gradeRules, GradeForm{})
}

func trim(s string) string { return strings.TrimSpace(s) }
