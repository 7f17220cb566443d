package models

// User represents a user in the database. The hash column is the bcrypt
// verifier; the raw password is never stored.
type User struct {
	ID           int64  `db:"id" json:"-"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// CredentialsRequest is the body of both /signup and /signin.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the body of a successful /signin.
type TokenResponse struct {
	Token string `json:"token"`
}
