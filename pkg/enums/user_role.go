package enums

// UserRole separates business owners from administrators.
type UserRole string

const (
	UserRoleOwner UserRole = "msme"
	UserRoleAdmin UserRole = "admin"
)

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the role is known.
func (r UserRole) IsValid() bool {
	return r == UserRoleOwner || r == UserRoleAdmin
}
