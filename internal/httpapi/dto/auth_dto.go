package dto

// Data Transfer Objects for the signup and token-exchange flow

// SignupRequest: payload for requesting a confirmation code
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email,max=250"`
}

// SignupResponse: acknowledgment echoing the submitted identity. The code
// itself only ever travels by email.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code for a bearer token
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: the issued access token
type TokenResponse struct {
	Token string `json:"token"`
}
