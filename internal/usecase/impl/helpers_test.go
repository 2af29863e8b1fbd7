package impl

import (
	"io"
	"log/slog"
	"time"

	"miniblog/config"
	"miniblog/internal/errors"

	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(reusePolicy string) *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{
			Access:  "access-secret-for-tests",
			Refresh: "refresh-secret-for-tests",
		},
		Auth: &config.AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			BcryptCost:      4,
			ReusePolicy:     reusePolicy,
		},
		Media: &config.MediaConfig{
			PublicPrefix:   "/uploads",
			MaxUploadBytes: 5 << 20,
		},
	}
}

// countCalls reports how many recorded calls of method matched args.
func countCalls(m *mock.Mock, method string, args ...any) int {
	count := 0
	for _, call := range m.Calls {
		if call.Method != method {
			continue
		}
		if _, diffs := mock.Arguments(args).Diff(call.Arguments); diffs == 0 {
			count++
		}
	}

	return count
}

var errTestStorage = errors.New("connection refused")
