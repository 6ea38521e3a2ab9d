package entity

import (
	"github.com/google/uuid"
)

type SavedAddress struct {
	BaseSimple
	UserID      uuid.UUID `db:"user_id"`
	Name        string    `db:"name"`
	Street      string    `db:"street"`
	City        string    `db:"city"`
	State       string    `db:"state"`
	Pincode     string    `db:"pincode"`
	PhoneNumber string    `db:"phone_number"`
	IsDefault   bool      `db:"is_default"`
}
