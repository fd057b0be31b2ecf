package store

import (
	"strings"

	"emart-storefront/internal/domain"
)

const minPasswordLength = 6

func validateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return &domain.FormError{Message: "Please fill in all fields"}
	}
	if !strings.Contains(email, "@") {
		return &domain.FormError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

func validateSignup(req domain.SignupRequest) error {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return &domain.FormError{Message: "Please fill in all fields"}
	}
	if !strings.Contains(req.Email, "@") {
		return &domain.FormError{Field: "email", Message: "Please enter a valid email address"}
	}
	if req.Password != req.PasswordConfirm {
		return &domain.FormError{Field: "password_confirm", Message: "Passwords do not match"}
	}
	if len(req.Password) < minPasswordLength {
		return &domain.FormError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	return nil
}
