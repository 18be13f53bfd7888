package models

// SessionUser is the public identity carried by a session and returned by the
// auth endpoints. It never includes the password.
type SessionUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}
