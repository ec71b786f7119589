// Package validation checks the shape of credential payloads before they
// reach the store. Each payload type has its own entry point.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/webgames/accounts-go/internal/model"
)

const (
	// MinPasswordLength applies to signup and to password changes.
	MinPasswordLength = 8
	// MaxPasswordLength is the longest input bcrypt accepts.
	MaxPasswordLength = 72
	// PasswordSymbols is the symbol class a signup password must draw from.
	PasswordSymbols = "!@#$%^&*"
)

var ErrInvalidField = errors.New("invalid field")

var (
	namePattern     = regexp.MustCompile(`^[a-zA-Z]+(?: [a-zA-Z]+)*$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+(?: [a-zA-Z0-9]+)*$`)
)

// Validator wraps a configured go-playground validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the account rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	mustRegister(v, "personname", func(fl validator.FieldLevel) bool {
		return namePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	})

	return &Validator{v: v}
}

// Signup validates every field of a registration payload.
func (v *Validator) Signup(req model.SignupRequest) error {
	return v.check(req)
}

// SignIn validates that a login payload carries both credentials.
func (v *Validator) SignIn(req model.SignInRequest) error {
	return v.check(req)
}

// StrongPassword reports whether s is MinPasswordLength to MaxPasswordLength characters
// drawn from letters, digits and PasswordSymbols, with at least one of each
// lowercase, uppercase, digit and symbol.
func StrongPassword(s string) bool {
	if len(s) < MinPasswordLength || len(s) > MaxPasswordLength {
		return false
	}

	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

func (v *Validator) check(payload any) error {
	err := v.v.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: %s", ErrInvalidField, strings.Join(fields, ", "))
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}
