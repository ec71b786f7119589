package model

// SignupRequest represents a user registration request.
type SignupRequest struct {
	FirstName string `json:"first_name" validate:"required,personname"`
	LastName  string `json:"last_name" validate:"required,personname"`
	Username  string `json:"username" validate:"required,username"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,strongpassword"`
}

// SignInRequest represents a user login request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest carries the account to change and its new password.
type UpdatePasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// AuthResponse carries a freshly issued bearer token.
type AuthResponse struct {
	Token string `json:"token"`
}

// PasswordSuggestionRequest selects the character classes of a suggested
// password. A nil class flag means the class is included.
type PasswordSuggestionRequest struct {
	Length    int   `json:"length"`
	Uppercase *bool `json:"uppercase"`
	Lowercase *bool `json:"lowercase"`
	Numbers   *bool `json:"numbers"`
	Symbols   *bool `json:"symbols"`
}

// PasswordSuggestion is a generated password that satisfies the signup policy
// when every class is selected.
type PasswordSuggestion struct {
	Password string `json:"password"`
	Length   int    `json:"length"`
}
