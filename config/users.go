package config

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Credential is one entry in the deployment-provisioned credential registry.
// Passwords are stored as bcrypt hashes, never in the clear.
type Credential struct {
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	Name         string `json:"name"`
}

// UserRegistry maps usernames to their credentials. The registry is fixed at
// startup; there is no runtime user management.
type UserRegistry map[string]Credential

// Roles recognized by the authorization middleware.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// LoadUsers builds the credential registry from the TRAFFIC_USERS environment
// variable (a JSON object of username -> credential). When unset or invalid,
// the built-in default officers are provisioned instead.
func LoadUsers() UserRegistry {
	raw := os.Getenv("TRAFFIC_USERS")
	if raw != "" {
		reg := UserRegistry{}
		if err := json.Unmarshal([]byte(raw), &reg); err == nil && len(reg) > 0 {
			return reg
		}
		zap.S().Warn("TRAFFIC_USERS is set but could not be parsed, falling back to default users")
	}
	return defaultUsers()
}

func defaultUsers() UserRegistry {
	reg := UserRegistry{}
	for _, u := range []struct {
		username, password, role, name string
	}{
		{"admin", "admin123", RoleAdmin, "Administrator"},
		{"officer1", "officer123", RoleUser, "Traffic Officer 1"},
		{"officer2", "officer456", RoleUser, "Traffic Officer 2"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			zap.S().With(err).Errorw("failed to hash default password", "username", u.username)
			continue
		}
		reg[u.username] = Credential{
			PasswordHash: string(hash),
			Role:         u.role,
			Name:         u.name,
		}
	}
	return reg
}

// Verify checks a username/password pair against the registry and returns the
// matching credential. Unknown users and password mismatches are
// indistinguishable to the caller.
func (r UserRegistry) Verify(username, password string) (Credential, bool) {
	cred, ok := r[username]
	if !ok {
		return Credential{}, false
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return Credential{}, false
	}
	return cred, true
}
