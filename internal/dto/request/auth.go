package request

import "encoding/json"

type SignupRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// TokenRequest accepts the code as a JSON number or a numeric string.
type TokenRequest struct {
	Username         string      `json:"username" validate:"required,max=150"`
	ConfirmationCode json.Number `json:"confirmation_code" validate:"required"`
}
