package adapter

// PasswordService hashes and checks account passwords.
type PasswordService interface {
	// HashPassword returns a one-way hash suitable for storage.
	HashPassword(password string) (string, error)

	// VerifyPassword returns an error unless password matches hashedPassword.
	VerifyPassword(hashedPassword, password string) error

	// ValidatePasswordStrength rejects passwords shorter than the signup minimum.
	ValidatePasswordStrength(password string) error
}
