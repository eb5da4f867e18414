package trim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service"
)

// Engine extracts a sub-range of a clip without re-encoding.
// Load models the asynchronous fetch of the engine runtime and
// must complete successfully before ExtractRange may be used.
type Engine interface {
	Load(ctx context.Context) error
	ExtractRange(ctx context.Context, blob models.Blob, start, end time.Duration) (models.Blob, error)
}

type Trim struct {
	log    *slog.Logger
	engine Engine

	mutex   sync.Mutex
	loaded  bool
	loadErr error
}

func New(
	log *slog.Logger,
	engine Engine,
) *Trim {
	return &Trim{
		log:    log,
		engine: engine,
	}
}

// LoadEngine initializes the engine. Failure is advisory:
// Skip stays available, only Trim is blocked.
func (t *Trim) LoadEngine(ctx context.Context) error {
	const op = "Trim.LoadEngine"

	log := t.log.With(
		slog.String("op", op),
	)

	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.loaded {
		return nil
	}

	if err := t.engine.Load(ctx); err != nil {
		log.Warn("engine failed to load, trim unavailable", sl.Err(err))
		t.loadErr = err
		return err
	}

	t.loaded = true
	t.loadErr = nil

	log.Info("engine loaded")

	return nil
}

// Ready reports whether Trim may be called.
func (t *Trim) Ready() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.loaded
}

// LoadErr returns the last engine load failure, if any.
func (t *Trim) LoadErr() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.loadErr
}

// TrimRange extracts the selected range from blob.
//
// Returns ErrEngineNotReady before a successful LoadEngine and
// ErrTrimFailed on extraction failure; both are recoverable,
// the caller may retry or fall back to Skip.
func (t *Trim) TrimRange(ctx context.Context, blob models.Blob, sel Selection) (models.Blob, error) {
	const op = "Trim.TrimRange"

	log := t.log.With(
		slog.String("op", op),
	)

	if !t.Ready() {
		log.Warn("trim requested before engine load")
		return models.Blob{}, service.ErrEngineNotReady
	}

	log.Info("trimming",
		slog.Duration("start", sel.Start()),
		slog.Duration("end", sel.End()),
	)

	out, err := t.engine.ExtractRange(ctx, blob, sel.Start(), sel.End())
	if err != nil {
		log.Error("extraction failed", sl.Err(err))
		return models.Blob{}, service.ErrTrimFailed
	}

	log.Info("trimmed", slog.Int64("size", out.Size()))

	return out, nil
}

// Skip passes the blob through unchanged. Always available,
// regardless of engine state.
func (t *Trim) Skip(blob models.Blob) models.Blob {
	return blob
}
