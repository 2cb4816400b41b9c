package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
)

// Custom validation tags
const (
	TagHasUpper   = "hasupper"
	TagHasLower   = "haslower"
	TagHasDigit   = "hasdigit"
	TagPhoneChars = "phonechars"
	TagUsername   = "username"
)

var (
	phoneCharsPattern = regexp.MustCompile(`^[0-9+\-\s()]*$`)
	usernamePattern   = regexp.MustCompile(`^[\w.@+-]+$`)
)

// Messages maps "<field>.<tag>" (or just "<field>") to the message shown for
// that failure. Field names are the JSON names of the validated struct.
type Messages map[string]string

// Validator wraps go-playground/validator with the dashboard's custom tags and
// converts failures into a field-keyed ValidationError.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the custom tags registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	mustRegister(v, TagHasUpper, runePredicate(unicode.IsUpper))
	mustRegister(v, TagHasLower, runePredicate(unicode.IsLower))
	mustRegister(v, TagHasDigit, runePredicate(unicode.IsDigit))
	mustRegister(v, TagPhoneChars, func(fl validator.FieldLevel) bool {
		return phoneCharsPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, TagUsername, func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// RegisterStructValidation adds a cross-field rule for the given types
func (v *Validator) RegisterStructValidation(fn validator.StructLevelFunc, types ...interface{}) {
	v.validate.RegisterStructValidation(fn, types...)
}

// Struct validates s. It returns nil or a *errors.ValidationError whose
// message is banner and whose fields carry one message per failing field.
func (v *Validator) Struct(s interface{}, messages Messages, banner string) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !apperrors.As(err, &fieldErrs) {
		return fmt.Errorf("[Validator Struct] %w", err)
	}

	ve := &apperrors.ValidationError{Message: banner}
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), messageFor(fe, messages))
	}
	return ve
}

func messageFor(fe validator.FieldError, messages Messages) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}

	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if", "required_unless":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s is not a valid email", field)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, jsonNameOf(fe))
	}
	return fmt.Sprintf("%s is invalid", field)
}

// jsonNameOf returns the JSON name of the field an eqfield rule compares against
func jsonNameOf(fe validator.FieldError) string {
	return strings.ToLower(fe.Param())
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

func runePredicate(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if pred(r) {
				return true
			}
		}
		return false
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("[validation] register %s: %v", tag, err))
	}
}
