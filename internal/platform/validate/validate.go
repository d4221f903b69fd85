package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/yungbote/facilitator-console/internal/platform/apierr"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// ErrInvalid is the cause wrapped by every ValidationError produced here.
	ErrInvalid = errors.New("please correct the highlighted fields")

	requiredTag  = "required"
	requiredText = "this field is required"

	httpURLTag  = "http_url"
	httpURLText = "must be a valid http(s) link"

	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"
)

func init() {
	validate = validator.New()
	english := en.New()
	translator, _ = ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	RegisterCustomTranslation(httpURLTag, httpURLText, true)

	_ = validate.RegisterValidation(notBlankTag, validators.NotBlank)
	RegisterCustomTranslation(notBlankTag, notBlankText)

	RegisterCustomTranslation(requiredTag, requiredText, true)
}

// RegisterValidation adds a custom tag.
func RegisterValidation(tag string, fn validator.Func) {
	_ = validate.RegisterValidation(tag, fn)
}

// RegisterStructValidation adds a struct-level rule for the given types.
func RegisterStructValidation(fn validator.StructLevelFunc, types ...interface{}) {
	validate.RegisterStructValidation(fn, types...)
}

// RegisterCustomTranslation registers a custom message for the validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates v and converts failures into an *apierr.ValidationError.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]apierr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierr.FieldError{Field: fe.Field(), Error: fe.Translate(translator)})
	}
	return apierr.NewValidationError(ErrInvalid, fields...)
}
