package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trafficops/traffic-ops-api/notify"
)

func TestMailer_EnabledRequiresBothSettings(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("DIGEST_RECIPIENT", "")
	assert.False(t, notify.New().Enabled())

	t.Setenv("SENDGRID_API_KEY", "SG.test")
	assert.False(t, notify.New().Enabled())

	t.Setenv("DIGEST_RECIPIENT", "ops@example.com")
	assert.True(t, notify.New().Enabled())
}
