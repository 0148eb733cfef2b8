package bootstrap

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/alumnihub/internal/config"
)

func TestMessagingLimitsFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Messaging.DeleteForEveryoneWindow = "30m"
	cfg.Messaging.MaxAttachments = 3
	cfg.Messaging.MaxAttachmentSizeMB = 2

	limits := messagingLimits(cfg)
	assert.Equal(t, 3, limits.MaxAttachments)
	assert.Equal(t, int64(2<<20), limits.MaxAttachmentSize)
	assert.Equal(t, 30*time.Minute, limits.DeleteWindow)
}

func TestEmailDisabledWithoutHost(t *testing.T) {
	cfg := &config.Config{}
	assert.Nil(t, newEmailService(cfg, zerolog.Nop()))

	cfg.SMTP.Host = "smtp.example.com"
	assert.NotNil(t, newEmailService(cfg, zerolog.Nop()))
}
