package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/mcpcodec"
)

// CapabilityETag fingerprints the wire form of a capability set and logs on
// failure. An empty string means the set could not be hashed.
func CapabilityETag(logger *zap.Logger, set domain.CapabilitySet) string {
	return hashWithLogger(logger, "capability", func() (string, error) {
		return mcpcodec.HashCapabilitySet(set)
	})
}

// ConfigETag fingerprints a resolved configuration so restarts with the same
// effective settings can be told apart from ones that changed.
func ConfigETag(logger *zap.Logger, cfg domain.Config) string {
	return hashWithLogger(logger, "config", func() (string, error) {
		data, err := json.Marshal(cfg)
		if err != nil {
			return "", err
		}
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	})
}

func hashWithLogger(logger *zap.Logger, label string, fn func() (string, error)) string {
	etag, err := fn()
	if err != nil {
		if logger != nil {
			logger.Warn(fmt.Sprintf("%s hash failed", label), zap.Error(err))
		}
		return ""
	}
	return etag
}
