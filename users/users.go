package users

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jrsteele09/go-agri-dashboard/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// Profile is the current-user document returned by the API
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName returns "First Last", falling back to the username
func (p *Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Username
	}
	return name
}

// RegisterData is the signup payload. Field names match the API.
type RegisterData struct {
	Username        string `json:"username" validate:"required,min=3,max=150,username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,hasupper,haslower,hasdigit"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required,min=2,max=30"`
	LastName        string `json:"last_name" validate:"required,min=2,max=30"`
}

const passwordComplexityMessage = "Password must contain uppercase, lowercase, and digit"

var registerMessages = validation.Messages{
	"username.required":         "Please input your username!",
	"username.min":              "Username must be at least 3 characters",
	"username.max":              "Username must be at most 150 characters",
	"username.username":         "Letters, digits and @/./+/-/_ only.",
	"first_name.required":       "Please input your first name!",
	"first_name.min":            "First name must be at least 2 characters",
	"first_name.max":            "First name must be at most 30 characters",
	"last_name.required":        "Please input your last name!",
	"last_name.min":             "Last name must be at least 2 characters",
	"last_name.max":             "Last name must be at most 30 characters",
	"email.required":            "Please input your email!",
	"email.email":               "Please enter a valid email",
	"password.required":         "Please input your password!",
	"password.min":              "Password must be at least 8 characters",
	"password.hasupper":         passwordComplexityMessage,
	"password.haslower":         passwordComplexityMessage,
	"password.hasdigit":         passwordComplexityMessage,
	"password_confirm.required": "Please confirm your password!",
	"password_confirm.eqfield":  "Passwords do not match!",
}

// RegisterErrorsBanner is the banner shown when signup fields are rejected
const RegisterErrorsBanner = "Please fix the errors below."

var validator = validation.New()

// Validate applies the client-side signup rules
func (r RegisterData) Validate() error {
	return validator.Struct(r, registerMessages, RegisterErrorsBanner)
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
