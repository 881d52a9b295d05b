package auth

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	lowercasePattern = regexp.MustCompile(`[a-z]`)
	uppercasePattern = regexp.MustCompile(`[A-Z]`)
	digitPattern     = regexp.MustCompile(`[0-9]`)
	namePattern      = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// ========================================
// REQUESTS
// ========================================

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Normalize trims the name and lower-cases the email.
func (r *RegisterRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Please provide a valid email address"),
			is.EmailFormat.Error("Please provide a valid email address"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password must be at least 8 characters long"),
			validation.RuneLength(8, 0).Error("Password must be at least 8 characters long"),
			validation.Match(lowercasePattern).Error("Password must contain at least one lowercase letter, one uppercase letter, and one number"),
			validation.Match(uppercasePattern).Error("Password must contain at least one lowercase letter, one uppercase letter, and one number"),
			validation.Match(digitPattern).Error("Password must contain at least one lowercase letter, one uppercase letter, and one number"),
		),
		validation.Field(&r.Name, nameRules()...),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Please provide a valid email address"),
			is.EmailFormat.Error("Please provide a valid email address"),
		),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

func (r *UpdateProfileRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, nameRules()...),
	)
}

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("Name must be between 2 and 50 characters"),
		validation.RuneLength(2, 50).Error("Name must be between 2 and 50 characters"),
		validation.Match(namePattern).Error("Name can only contain letters and spaces"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ========================================
// RESPONSES
// ========================================

// UserResponse is the identity summary returned by every auth endpoint.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
