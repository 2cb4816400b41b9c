package forms

import (
	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-agri-dashboard/internal/validation"
)

type ContactMethod string

const (
	ContactEmail ContactMethod = "email"
	ContactPhone ContactMethod = "phone"
	ContactBoth  ContactMethod = "both"
)

// Payload is the entry form as the user fills it in
type Payload struct {
	FullName      string        `json:"fullName" validate:"required,min=3,max=100"`
	Email         string        `json:"email" validate:"required,email"`
	Password      string        `json:"password" validate:"required,min=8,hasupper,haslower,hasdigit"`
	ContactMethod ContactMethod `json:"contactMethod" validate:"required,oneof=email phone both"`
	Phone         string        `json:"phone,omitempty" validate:"omitempty,phonechars,min=10"`
	Age           *int          `json:"age,omitempty" validate:"omitempty,min=1,max=150"`
	Website       string        `json:"website,omitempty" validate:"omitempty,url"`
	Bio           string        `json:"bio,omitempty" validate:"max=500"`
	Country       string        `json:"country,omitempty"`
	AgreeTerms    bool          `json:"agreeTerms" validate:"eq=true"`
}

// Submission is the wire shape accepted by the form endpoint
type Submission struct {
	FullName      string        `json:"full_name,omitempty"`
	Email         string        `json:"email,omitempty"`
	Password      string        `json:"password,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Age           *int          `json:"age,omitempty"`
	Website       string        `json:"website,omitempty"`
	Bio           string        `json:"bio,omitempty"`
	Country       string        `json:"country,omitempty"`
	AgreeTerms    bool          `json:"agree_terms"`
	ContactMethod ContactMethod `json:"contact_method,omitempty"`
}

// ToSubmission renames the form fields to the API's snake_case names
func (p Payload) ToSubmission() Submission {
	return Submission{
		FullName:      p.FullName,
		Email:         p.Email,
		Password:      p.Password,
		Phone:         p.Phone,
		Age:           p.Age,
		Website:       p.Website,
		Bio:           p.Bio,
		Country:       p.Country,
		AgreeTerms:    p.AgreeTerms,
		ContactMethod: p.ContactMethod,
	}
}

// ErrorsBanner accompanies field errors, whether found locally or by the server
const ErrorsBanner = "Please fix the validation errors shown below."

// ServerErrorMessage is shown for any failure that is not a field error
const ServerErrorMessage = "An unexpected server error occurred. Please try again later."

var messages = validation.Messages{
	"fullName.required":      "Please input your full name",
	"fullName.min":           "Full name must be at least 3 characters",
	"fullName.max":           "Full name must be at most 100 characters",
	"email.required":         "Please input your email",
	"email.email":            "Please enter a valid email",
	"password.required":      "Please input your password",
	"password.min":           "Password must be at least 8 characters",
	"password.hasupper":      "Uppercase required",
	"password.haslower":      "Lowercase required",
	"password.hasdigit":      "Digit required",
	"contactMethod":          "Please select a contact method",
	"phone.required":         "Phone is required",
	"phone.phonechars":       "Invalid phone characters",
	"phone.min":              "Phone number must be at least 10 digits",
	"age":                    "Valid age required",
	"website":                "Please enter a valid URL",
	"bio":                    "Bio cannot exceed 500 characters",
	"agreeTerms":             "Agree to terms",
}

var formValidator = newValidator()

func newValidator() *validation.Validator {
	v := validation.New()
	v.RegisterStructValidation(phoneRequired, Payload{})
	return v
}

// phoneRequired makes the phone number mandatory unless contact is by email only
func phoneRequired(sl validator.StructLevel) {
	p := sl.Current().Interface().(Payload)
	if p.ContactMethod != ContactEmail && p.ContactMethod != "" && p.Phone == "" {
		sl.ReportError(p.Phone, "phone", "Phone", "required", "")
	}
}

// Validate applies the client-side form rules
func (p Payload) Validate() error {
	return formValidator.Struct(p, messages, ErrorsBanner)
}
