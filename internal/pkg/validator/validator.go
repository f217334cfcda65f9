package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate

	clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

var weekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

var categories = map[string]bool{
	"gym":        true,
	"co-working": true,
	"banquet":    true,
	"cafe":       true,
	"other":      true,
}

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonName)
	register(validate)

	// gin binding shares the same custom tags
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
	_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return weekdays[fl.Field().String()]
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return categories[fl.Field().String()]
	})
}

// jsonName reports fields by their JSON key so error details match the
// request body.
func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// IsClock reports whether s is a 24-hour "HH:MM" time.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// Validate struct fields
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return Fields(err)
}

// Fields flattens validator errors into field -> failed tag.
func Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[e.Field()] = e.Tag()
	}
	return out
}

// Error is a failed struct validation keyed by field.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid " + strings.Join(parts, ", ")
}

// Check validates v and returns an *Error, or nil.
func Check(v any) error {
	if fields := Validate(v); len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// NewError builds an *Error for a single field.
func NewError(field, tag string) *Error {
	return &Error{Fields: map[string]string{field: tag}}
}
