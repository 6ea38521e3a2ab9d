package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type addressForm struct {
	Pincode string `json:"pincode" validate:"required,pincode"`
	Phone   string `json:"phone_number" validate:"omitempty,phone"`
	Method  string `json:"payment_method" validate:"required,oneof=cod card upi"`
}

func TestValidateStruct_CustomTags(t *testing.T) {
	assert.Nil(t, ValidateStruct(&addressForm{Pincode: "560001", Phone: "+919876543210", Method: "upi"}))
	assert.Nil(t, ValidateStruct(&addressForm{Pincode: "110011", Method: "cod"}))

	errs := ValidateStruct(&addressForm{Pincode: "012345", Phone: "12-34", Method: "cash"})
	assert.Equal(t, map[string]string{
		"pincode":        "Must be a 6-digit pincode",
		"phone_number":   "Must be a valid phone number",
		"payment_method": "Must be one of: cod, card, upi",
	}, errs)
}

func TestFormatValidationErrors_SortedByField(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{
		"username": "This field is required",
		"email":    "Invalid email format",
	})
	assert.Equal(t, "email: Invalid email format; username: This field is required", msg)
}
