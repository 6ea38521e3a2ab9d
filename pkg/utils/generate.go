package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== OTP ====================

// GenerateOTP returns a numeric code of the given length with no leading zero,
// drawn uniformly from [10^(length-1), 10^length - 1].
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9))

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	return n.Add(n, low).String(), nil
}

// ==================== ORDER NUMBER ====================

// GenerateOrderNumber formats ORD-YYYYMMDD-HHMMSS-NNNN
func GenerateOrderNumber(now time.Time) string {
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		suffix = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("ORD-%s-%s-%04d", now.Format("20060102"), now.Format("150405"), suffix.Int64())
}
