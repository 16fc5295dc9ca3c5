package models

// User is an account keyed by the numeric identity the chat platform assigns.
// A user record exists from first contact, but ledger operations are gated on
// a completed profile.
type User struct {
	// ID is the opaque numeric identity from the chat platform.
	ID int64

	// Username is the platform handle, may be empty.
	Username string

	// FirstName is the display name from the platform.
	FirstName string

	// FullName is the legal name supplied during registration, nil until then.
	FullName *string

	// Email is supplied during registration, nil until then.
	Email *string

	// CreatedAt is the Unix timestamp of first contact.
	CreatedAt int64
}

// Registered reports whether the profile is complete. Only registered users
// may use ledger operations.
func (u *User) Registered() bool {
	return u != nil && u.FullName != nil && u.Email != nil
}
