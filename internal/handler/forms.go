package handler

import (
	"errors"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cayiba/cayiba-admin/internal/crypto"
	"github.com/cayiba/cayiba-admin/internal/model"
)

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

var loginMessages = map[string]string{
	"email.required":    "Email is required",
	"email.email":       "Invalid email address",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
}

// CreateSubAdminForm is the create sub-admin form.
type CreateSubAdminForm struct {
	FullName        string `form:"fullName" validate:"required,min=2"`
	Email           string `form:"email" validate:"required,email"`
	CountryCode     string `form:"countryCode" validate:"required,country_code"`
	PhoneNumber     string `form:"phoneNumber" validate:"required,phone"`
	Country         string `form:"country" validate:"required,country"`
	Password        string `form:"password" validate:"required,min=8,password_policy"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

// Request is the API body of the form.
func (f CreateSubAdminForm) Request() model.CreateSubAdminRequest {
	return model.CreateSubAdminRequest{
		FullName:    f.FullName,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		CountryCode: f.CountryCode,
		Country:     f.Country,
		Password:    f.Password,
	}
}

var createMessages = map[string]string{
	"fullName.required":        "Full name is required",
	"fullName.min":             "Full name must be at least 2 characters",
	"email.required":           "Please enter a valid email address",
	"email.email":              "Please enter a valid email address",
	"countryCode.required":     "Country code is required",
	"countryCode.country_code": "Country code is required",
	"phoneNumber.required":     "Phone number is required",
	"phoneNumber.phone":        "Please enter a valid phone number (10-15 digits)",
	"country.required":         "Country is required",
	"country.country":          "Country is required",
	"password.required":        "Password must be at least 8 characters",
	"password.min":             "Password must be at least 8 characters",
	"password.password_policy": "Password must contain uppercase, lowercase, and number",
	"confirmPassword.required": "Please confirm your password",
	"confirmPassword.eqfield":  "Passwords do not match",
}

var phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)

// newValidator returns a validator that knows the console form rules and
// reports fields by their form names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("form"), ","); name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "country_code", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		return slices.ContainsFunc(model.CountryCodes, func(c model.CountryCode) bool { return c.Code == code })
	})
	mustRegister(v, "country", func(fl validator.FieldLevel) bool {
		return slices.Contains(model.Countries, fl.Field().String())
	})
	mustRegister(v, "password_policy", func(fl validator.FieldLevel) bool {
		return crypto.CheckPasswordPolicy(fl.Field().String()) == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// fieldErrors validates form and returns one message per invalid field,
// keyed by form name. It returns nil when the form is valid.
func fieldErrors(v *validator.Validate, form any, messages map[string]string) map[string]string {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[fe.Field()] = msg
	}
	return out
}
