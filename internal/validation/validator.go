// Package validation turns submitted forms into field-keyed error lists using
// go-playground/validator. It never renders anything; callers decide how to
// show the messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// NonFieldKey collects messages that belong to the form as a whole.
const NonFieldKey = "__all__"

// Errors maps a form field name to its messages.
type Errors struct {
	Fields map[string][]string
}

func New() *Errors {
	return &Errors{Fields: make(map[string][]string)}
}

func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a message for field.
func (e *Errors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// AddNonField appends a form-level message.
func (e *Errors) AddNonField(msg string) {
	e.Add(NonFieldKey, msg)
}

// Get returns the messages for field; safe on a nil receiver so templates can call it freely.
func (e *Errors) Get(field string) []string {
	if e == nil {
		return nil
	}
	return e.Fields[field]
}

func (e *Errors) NonField() []string {
	return e.Get(NonFieldKey)
}

func (e *Errors) Has(field string) bool {
	return len(e.Get(field)) > 0
}

func (e *Errors) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Err returns e as an error, or nil when there is nothing to report.
func (e *Errors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

// As extracts *Errors from err.
func As(err error) (*Errors, bool) {
	var ve *Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var (
	usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	validate   = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()

	// report the name the browser submitted, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("hasletter", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsLetter) >= 0
	})
	_ = v.RegisterValidation("hasdigit", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
	})
	_ = v.RegisterValidation("notnumeric", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	return v
}

// Validate checks s against its `validate` tags. It returns nil or *Errors.
func Validate(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := New()
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "hasletter":
		return "The password must contain at least one letter."
	case "hasdigit":
		return "The password must contain at least one digit."
	case "notnumeric":
		return "This password is entirely numeric."
	case "oneof":
		return "Select a valid choice."
	case "eqfield":
		return "The two password fields didn't match."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return "Enter a valid value."
	}
}
