package httpx

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/budgie/internal/budget"
	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/icon"
	"github.com/MrJamesThe3rd/budgie/internal/money"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	rules := map[string]func(string) bool{
		"amount":    money.Valid,
		"icon":      func(s string) bool { return icon.Icon(s).Valid() },
		"color":     icon.ValidColor,
		"kind":      func(s string) bool { return category.Type(s).Valid() },
		"period":    func(s string) bool { return budget.Period(s).Valid() },
		"frequency": func(s string) bool { return transaction.Frequency(s).Valid() },
	}

	for tag, ok := range rules {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		})
		if err != nil {
			panic(err)
		}
	}

	return v
}

// FieldError names a request field and the rule it failed.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func fieldErrors(err validator.ValidationErrors) []FieldError {
	out := make([]FieldError, len(err))
	for i, fe := range err {
		out[i] = FieldError{Field: fe.Field(), Rule: fe.Tag()}
	}

	return out
}
