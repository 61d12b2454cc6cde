package validation

import (
	"net/url"

	"github.com/go-playground/validator/v10"
)

var categories = map[string]bool{
	"BackEnd":   true,
	"FrontEnd":  true,
	"Mobile":    true,
	"FullStack": true,
	"DevOps":    true,
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return categories[fl.Field().String()]
	})

	// Absolute URL with scheme and host; the built-in "url" tag accepts
	// scheme-relative values we do not want stored.
	v.RegisterValidation("absurl", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		return err == nil && u.Scheme != "" && u.Host != ""
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		return ve
	}
	return nil
}
