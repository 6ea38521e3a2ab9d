package request

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,phone"`
}

// LoginRequest is the password stage. Next is where to land after the OTP.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Next     string `json:"next" validate:"omitempty,max=2048"`
}

// VerifyOTPRequest carries no length rule on OTP: any malformed code is
// reported as invalid-or-expired, not as a validation error.
type VerifyOTPRequest struct {
	OTP  string `json:"otp" validate:"max=64"`
	Next string `json:"next" validate:"omitempty,max=2048"`
}

// ClientInfo is recorded on the session created at login
type ClientInfo struct {
	UserAgent string
	IPAddress string
}
