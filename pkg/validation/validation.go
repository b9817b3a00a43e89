// Package validation registers the custom binding tags used by request DTOs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"github.com/shopspring/decimal"
)

// Register installs the custom tags on v and makes field errors report JSON names.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	if err := v.RegisterValidation("price", validatePrice); err != nil {
		return err
	}
	if err := v.RegisterValidation("amount", validateAmount); err != nil {
		return err
	}
	if err := v.RegisterValidation("date", validateDate); err != nil {
		return err
	}
	return nil
}

// RegisterWithGin installs the tags on gin's default validator engine.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validation: gin validator engine is not go-playground/validator")
	}
	return Register(v)
}

// price: a string or decimal strictly between 0 and 100,000,000 with cents precision.
func validatePrice(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl.Field())
	if !ok {
		return false
	}
	return money.CheckPrice(d) == nil
}

// amount: an optional non-negative money value.
func validateAmount(fl validator.FieldLevel) bool {
	if fl.Field().Kind() == reflect.String && strings.TrimSpace(fl.Field().String()) == "" {
		return true
	}
	d, ok := fieldDecimal(fl.Field())
	if !ok {
		return false
	}
	return !d.IsNegative() && d.LessThan(money.MaxPrice) && d.Equal(d.Round(2))
}

// date: YYYY-MM-DD.
func validateDate(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := parseDay(s)
	return err == nil
}

func fieldDecimal(f reflect.Value) (decimal.Decimal, bool) {
	switch f.Kind() {
	case reflect.String:
		d, err := decimal.NewFromString(strings.TrimSpace(f.String()))
		return d, err == nil
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(f.Float()), true
	case reflect.Int, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(f.Int()), true
	}
	if d, ok := f.Interface().(decimal.Decimal); ok {
		return d, true
	}
	return decimal.Zero, false
}

// FieldErrors converts a binding error into field level messages.
// Errors that are not validator errors (malformed JSON, wrong types) yield a single "body" entry.
func FieldErrors(err error) []apperror.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apperror.FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperror.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// BindError wraps a binding error as a 422 validation AppError.
func BindError(err error) *apperror.AppError {
	return apperror.NewValidationError(FieldErrors(err))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "price":
		return "must be a number greater than 0 and less than 100,000,000 with at most 2 decimals"
	case "amount":
		return "must be a non-negative amount with at most 2 decimals"
	case "date":
		return "must be a date in YYYY-MM-DD format"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "dive":
		return "is invalid"
	}
	return fmt.Sprintf("failed on %q", fe.Tag())
}
