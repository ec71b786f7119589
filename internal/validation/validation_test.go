package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webgames/accounts-go/internal/model"
)

func validSignup() model.SignupRequest {
	return model.SignupRequest{
		FirstName: "Bobby",
		LastName:  "Bob",
		Username:  "DaBob123",
		Email:     "BobbyBob123@gmail.com",
		Password:  "Pa!!asW342w",
	}
}

func TestSignup_Valid(t *testing.T) {
	v := New()
	require.NoError(t, v.Signup(validSignup()))

	req := validSignup()
	req.FirstName = "Mary Ann"
	req.Username = "Da Bob 7"
	req.Email = "a@b.com"
	require.NoError(t, v.Signup(req))
}

func TestSignup_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.SignupRequest)
		field  string
	}{
		{"email with two at signs", func(r *model.SignupRequest) { r.Email = "Thisisavalidfor@mat@gmail.com" }, "email"},
		{"email without domain", func(r *model.SignupRequest) { r.Email = "bobby@" }, "email"},
		{"empty email", func(r *model.SignupRequest) { r.Email = "" }, "email"},
		{"first name with digits", func(r *model.SignupRequest) { r.FirstName = "B0bby" }, "first_name"},
		{"first name with double space", func(r *model.SignupRequest) { r.FirstName = "Bob  By" }, "first_name"},
		{"last name with trailing space", func(r *model.SignupRequest) { r.LastName = "Bob " }, "last_name"},
		{"username with symbol", func(r *model.SignupRequest) { r.Username = "DaBob_123" }, "username"},
		{"short password", func(r *model.SignupRequest) { r.Password = "Pa!1w" }, "password"},
		{"password without symbol", func(r *model.SignupRequest) { r.Password = "Password123" }, "password"},
		{"password without uppercase", func(r *model.SignupRequest) { r.Password = "pa!!asw342w" }, "password"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)

			err := v.Signup(req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidField)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestSignIn(t *testing.T) {
	v := New()

	require.NoError(t, v.SignIn(model.SignInRequest{Email: "a@b.com", Password: "x"}))
	assert.ErrorIs(t, v.SignIn(model.SignInRequest{Email: "", Password: "x"}), ErrInvalidField)
	assert.ErrorIs(t, v.SignIn(model.SignInRequest{Email: "a@b.com"}), ErrInvalidField)
}

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Pa!!asW342w", true},
		{"Aa1!aaaa", true},
		{"Aa1!aaa", false},
		{"aaaaaaa1!", false},
		{"AAAAAAA1!", false},
		{"Aaaaaaaa!", false},
		{"Aaaaaaaa1", false},
		{"Aa1!aaaa ", false},
		{"Aa1!aaaa(", false},
		{"Ää1!aaaa", false},
		{"Aa1!" + strings.Repeat("a", 68), true},
		{"Aa1!" + strings.Repeat("a", 69), false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("len%d_%.12s", len(tt.password), tt.password), func(t *testing.T) {
			assert.Equal(t, tt.want, StrongPassword(tt.password))
		})
	}
}
