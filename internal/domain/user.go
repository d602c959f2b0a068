package domain

import "time"

// User represents a registered account. PasswordHash never leaves the
// repository/auth layers.
type User struct {
	ID           string
	FirstName    string
	MiddleName   *string
	Surname      string
	Email        string
	PasswordHash string
	Gender       string
	PhoneNumber  string
	CountryCode  string
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
