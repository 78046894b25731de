package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshdrift/pkg/observability"
)

// logHooks reports engine, cache and server events at debug level.
// Pulse events are too frequent to log and stay no-ops.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnLayout(outcome string, foreground, background int, d time.Duration) {
	h.logger.Debug("layout pass", "outcome", outcome, "foreground", foreground, "background", background, "took", d)
}

func (h logHooks) OnFrame(ticks int, dropped bool) {
	if dropped {
		h.logger.Debug("frame dropped lag", "ticks", ticks)
	}
}

func (h logHooks) OnThemeRefresh() {
	h.logger.Debug("theme refreshed")
}

func (h logHooks) OnCacheHit(_ context.Context, backend string) {
	h.logger.Debug("cache hit", "backend", backend)
}

func (h logHooks) OnCacheMiss(_ context.Context, backend string) {
	h.logger.Debug("cache miss", "backend", backend)
}

func (h logHooks) OnCacheSet(_ context.Context, backend string, size int) {
	h.logger.Debug("cache set", "backend", backend, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("request", "method", method, "path", path, "status", status, "took", d)
}

// installHooks registers logHooks when debug logging is enabled.
func (c *CLI) installHooks() {
	if c.Logger.GetLevel() > log.DebugLevel {
		return
	}
	h := logHooks{logger: c.Logger}
	observability.SetEngineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}
