package usecase

import (
	"errors"
	"fmt"

	"appliance-store/pkg/utils"
)

// Error kinds handlers map to HTTP status codes. Services wrap them with
// context, so compare with errors.Is.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrOTPThrottled        = errors.New("OTP already sent. Try again later")
	ErrSessionExpired      = errors.New("session expired. Please login again")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	ErrAccountInactive     = errors.New("account is deactivated")

	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrPaymentGateway   = errors.New("payment gateway error")
)

func validationError(errs map[string]string) error {
	return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
}
