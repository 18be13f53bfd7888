package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/trafficops/traffic-ops-api/config"
)

func TestLoadUsers_Defaults(t *testing.T) {
	os.Unsetenv("TRAFFIC_USERS")

	reg := config.LoadUsers()

	cred, ok := reg.Verify("admin", "admin123")
	assert.True(t, ok)
	assert.Equal(t, config.RoleAdmin, cred.Role)

	cred, ok = reg.Verify("officer1", "officer123")
	assert.True(t, ok)
	assert.Equal(t, config.RoleUser, cred.Role)
}

func TestLoadUsers_FromEnv(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRAFFIC_USERS", `{"chief":{"password_hash":"`+string(hash)+`","role":"admin","name":"Chief"}}`)

	reg := config.LoadUsers()

	cred, ok := reg.Verify("chief", "hunter2")
	assert.True(t, ok)
	assert.Equal(t, "Chief", cred.Name)

	// the env registry replaces the defaults entirely
	_, ok = reg.Verify("admin", "admin123")
	assert.False(t, ok)
}

func TestLoadUsers_BadEnvFallsBack(t *testing.T) {
	t.Setenv("TRAFFIC_USERS", "{not json")

	reg := config.LoadUsers()

	_, ok := reg.Verify("admin", "admin123")
	assert.True(t, ok)
}

func TestUserRegistry_Verify(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	reg := config.UserRegistry{
		"officer9": {PasswordHash: string(hash), Role: config.RoleUser, Name: "Officer 9"},
	}

	_, ok := reg.Verify("officer9", "s3cret")
	assert.True(t, ok)

	_, ok = reg.Verify("officer9", "wrong")
	assert.False(t, ok)

	_, ok = reg.Verify("nobody", "s3cret")
	assert.False(t, ok)
}
