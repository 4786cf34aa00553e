package api

// LoginRequest is the body of POST /api/token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /api/token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPair is returned by login, register and refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid reports whether both tokens are present.
func (p TokenPair) Valid() bool {
	return p.Access != "" && p.Refresh != ""
}

// RegisterRequest is the body of POST /users/register/.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	InjuryType  int64  `json:"injury_type,omitempty"`
}

// PasswordUpdate is the body of PUT /users/update_password/.
type PasswordUpdate struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ErrorBody is the shape of non-2xx responses. Field-level validation
// errors arrive as extra keys mapping to lists of messages.
type ErrorBody struct {
	Detail         string   `json:"detail,omitempty"`
	Error          string   `json:"error,omitempty"`
	NonFieldErrors []string `json:"non_field_errors,omitempty"`
}
