package school

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"chronoboard/services/bell"
	"chronoboard/services/color"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	colorTag  = "color"
	colorText = "{0} must be an HSL (\"H S% L%\") or hex (#rrggbb) color"

	bellPresetTag  = "bell_preset"
	bellPresetText = "{0} must be one of the built-in bell presets"

	slugTag   = "slug"
	slugText  = "{0} may only contain lowercase letters, digits and dashes"
	slugRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,62}[a-z0-9])?$`)

	requiredTag  = "required"
	requiredText = "{0} is required"
)

// Validator wraps go-playground/validator with the board's custom tags and
// English messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator instantiates the validator for use.
func NewValidator() *Validator {
	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")
	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(colorTag, colorValidation)
	registerTranslation(validate, translator, colorTag, colorText)
	_ = validate.RegisterValidation(bellPresetTag, bellPresetValidation)
	registerTranslation(validate, translator, bellPresetTag, bellPresetText)
	_ = validate.RegisterValidation(slugTag, slugValidation)
	registerTranslation(validate, translator, slugTag, slugText)
	registerTranslation(validate, translator, requiredTag, requiredText, true)

	return &Validator{validate: validate, translator: translator}
}

// registerTranslation registers a custom translation for the specified validation tag.
func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
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

// Struct validates v and returns a *ValidationError describing every failed field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fieldPath(fe.Namespace())] = fe.Translate(v.translator)
	}
	return out
}

// fieldPath drops the root struct name: "ContentUpdate.items[0].title" -> "items[0].title".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// Custom validators

func colorValidation(fl validator.FieldLevel) bool {
	return color.Valid(fl.Field().String())
}

func bellPresetValidation(fl validator.FieldLevel) bool {
	_, ok := bell.Lookup(fl.Field().String())
	return ok
}

func slugValidation(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}
