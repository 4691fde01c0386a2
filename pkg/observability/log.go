package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// EditorHooks, RenderHooks and CacheHooks.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnMutation(_ context.Context, op, id string) {
	h.Logger.Debug("mutation", "op", op, "id", id)
}

func (h LogHooks) OnHistory(_ context.Context, op string, undoLen, redoLen int) {
	h.Logger.Debug("history", "op", op, "undo", undoLen, "redo", redoLen)
}

func (h LogHooks) OnPathSearch(_ context.Context, found bool, edges int, weight float64, d time.Duration) {
	h.Logger.Debug("path search", "found", found, "edges", edges, "weight", weight, "took", d)
}

func (h LogHooks) OnRenderStart(_ context.Context, engine string, nodeCount int) {
	h.Logger.Debug("render start", "engine", engine, "nodes", nodeCount)
}

func (h LogHooks) OnRenderComplete(_ context.Context, engine string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "engine", engine, "err", err)
		return
	}
	h.Logger.Debug("render complete", "engine", engine, "took", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

// Install registers h for every hook category.
func (h LogHooks) Install() {
	SetEditorHooks(h)
	SetRenderHooks(h)
	SetCacheHooks(h)
}
