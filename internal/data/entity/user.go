package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User is a store account. Username is what the login form asks for.
type User struct {
	Base
	Username      string   `db:"username"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password"`
	Phone         *string  `db:"phone"`
	Role          UserRole `db:"role"`
	EmailVerified bool     `db:"email_verified"`
	IsActive      bool     `db:"is_active"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// CanLogin: active and not soft-deleted
func (u *User) CanLogin() bool { return u.IsActive && u.DeletedAt == nil }
