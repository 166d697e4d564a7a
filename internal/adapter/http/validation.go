package http

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"lending-backoffice/internal/engine"
	"lending-backoffice/pkg/id"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError and ErrorResponse are the JSON error bodies of every handler.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// report fields by their json name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// money is validated as a number; dates as their YYYY-MM-DD form
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		x, _ := d.Float64()
		return x
	}, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(engine.Date)
		if !ok || d.IsZero() {
			return ""
		}
		return d.String()
	}, engine.Date{})

	// loan id = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.IsID32(fl.Field().String())
	})
	// max 2 decimal places
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

var tagMessages = map[string]func(param string) string{
	"required": func(string) string { return "is required" },
	"hex32":    func(string) string { return "must be 32-char lowercase hex" },
	"dec2":     func(string) string { return "must have at most 2 decimal places" },
	"gt":       func(p string) string { return "must be greater than " + p },
	"gte":      func(p string) string { return "must be greater than or equal to " + p },
	"lte":      func(p string) string { return "must be less than or equal to " + p },
	"max":      func(p string) string { return "must be at most " + p + " characters" },
	"oneof":    func(p string) string { return "must be one of: " + p },
}

// ToFieldErrors turns validator failures into one FieldError per field.
// Any other error is reported under the "_" field.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		msg := e.Tag() + " validation failed"
		if f, ok := tagMessages[e.Tag()]; ok {
			msg = f(e.Param())
		}
		out = append(out, FieldError{Field: e.Field(), Message: msg})
	}
	return out
}
