package glyph

import (
	"context"
	"log/slog"
	"testing"
)

func TestDefaultCacheLoggerIsSilent(t *testing.T) {
	for _, c := range []*Cache{
		NewCache(newCountingFace()),
		NewCache(newCountingFace(), WithCacheLogger(nil)),
	} {
		if _, ok := c.logger.Handler().(nopHandler); !ok {
			t.Errorf("default handler = %T, want nopHandler", c.logger.Handler())
		}
		if c.logger.Enabled(context.Background(), slog.LevelError) {
			t.Error("default logger should be disabled at every level")
		}
	}
}
