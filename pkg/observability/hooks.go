// Package observability provides hooks for metrics, tracing, and logging.
//
// The package uses a simple hooks pattern: hook interfaces per event
// category, no-op defaults, and a registry populated by main at startup.
// Libraries emit events without depending on any observability backend:
//
//	observability.Pipeline().OnCollectStart(ctx, path)
//	// ... parse the file ...
//	observability.Pipeline().OnCollectComplete(ctx, path, proteinCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the drawing pipeline.
type PipelineHooks interface {
	// Collect events (one per input file)
	OnCollectStart(ctx context.Context, path string)
	OnCollectComplete(ctx context.Context, path string, proteinCount int, duration time.Duration, err error)

	// Annotate events (one per cluster)
	OnAnnotateStart(ctx context.Context, cluster string)
	OnAnnotateComplete(ctx context.Context, cluster string, domainCount int, duration time.Duration, err error)

	// Layout events (one per figure)
	OnLayoutStart(ctx context.Context, clusterCount int)
	OnLayoutComplete(ctx context.Context, clusterCount int, duration time.Duration, err error)

	// Render events (one per output document)
	OnRenderStart(ctx context.Context, path string)
	OnRenderComplete(ctx context.Context, path string, size int, duration time.Duration, err error)
}

// ScanHooks receives events from external HMM scan invocations.
type ScanHooks interface {
	OnScanStart(ctx context.Context, database string, seqCount int)
	OnScanComplete(ctx context.Context, database string, hitCount int, duration time.Duration, err error)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnCollectStart(context.Context, string) {}
func (NoopPipelineHooks) OnCollectComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnAnnotateStart(context.Context, string) {}
func (NoopPipelineHooks) OnAnnotateComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                       {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, string, int)                          {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, time.Duration, error) {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	scanHooks     ScanHooks     = NoopScanHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetScanHooks registers custom scan hooks.
// This should be called once at application startup before any scan operations.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	scanHooks = NoopScanHooks{}
}
