package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// nicknames are 2-20 word characters, matching the signup policy
var nicknameRe = regexp.MustCompile(`^\w{2,20}$`)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
		return nicknameRe.MatchString(fl.Field().String())
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
