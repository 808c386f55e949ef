package hashutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
)

func TestCapabilityETag_Stable(t *testing.T) {
	set := domain.CapabilitySet{
		Tools:     []domain.ToolDescriptor{{Name: "echo", Description: "Echo"}},
		Resources: []domain.ResourceDescriptor{{Name: "welcome", URI: "b2bizzio://welcome", MIMEType: "text/plain"}},
	}
	first := CapabilityETag(zap.NewNop(), set)
	assert.Len(t, first, 64)
	assert.Equal(t, first, CapabilityETag(nil, set))

	set.Tools[0].Description = "Echo back"
	assert.NotEqual(t, first, CapabilityETag(nil, set))
}

func TestConfigETag_TracksChanges(t *testing.T) {
	cfg := domain.DefaultConfig()
	base := ConfigETag(nil, cfg)
	assert.Len(t, base, 64)

	cfg.LogLevel = "debug"
	assert.NotEqual(t, base, ConfigETag(nil, cfg))
}

func TestHashWithLogger_Failure(t *testing.T) {
	got := hashWithLogger(zap.NewNop(), "test", func() (string, error) {
		return "", errors.New("boom")
	})
	assert.Empty(t, got)
}
