// Package tracker guards analytics emission on the watch page:
// one view and one complete per page load, no matter how many
// play or progress events fire.
package tracker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	"github.com/avoronin/clipcast/internal/models"
)

// completeThreshold is the watched fraction that counts
// as a completion.
const completeThreshold = 0.9

type Analytics interface {
	Track(ctx context.Context, event models.AnalyticsRequest) error
}

type Tracker struct {
	log     *slog.Logger
	client  Analytics
	videoID string

	mutex        sync.Mutex
	viewSent     bool
	completeSent bool
}

func New(
	log *slog.Logger,
	client Analytics,
	videoID string,
) *Tracker {
	return &Tracker{
		log:     log,
		client:  client,
		videoID: videoID,
	}
}

// OnPlay fires the view event once, carrying the measured
// duration so the server can backfill the record.
func (t *Tracker) OnPlay(ctx context.Context, duration float64) {
	const op = "Tracker.OnPlay"

	t.mutex.Lock()
	if t.viewSent {
		t.mutex.Unlock()
		return
	}
	t.viewSent = true
	t.mutex.Unlock()

	event := models.AnalyticsRequest{
		VideoID:  t.videoID,
		Event:    models.EventView,
		Duration: &duration,
	}

	if err := t.client.Track(ctx, event); err != nil {
		// never block playback over analytics
		t.log.Warn("failed to track view",
			slog.String("op", op),
			slog.String("videoId", t.videoID),
			sl.Err(err),
		)
	}
}

// OnProgress fires the complete event once playback position
// reaches 90% of duration. Later triggers are no-ops.
func (t *Tracker) OnProgress(ctx context.Context, position, duration float64) {
	const op = "Tracker.OnProgress"

	if duration <= 0 || position/duration < completeThreshold {
		return
	}

	t.mutex.Lock()
	if t.completeSent {
		t.mutex.Unlock()
		return
	}
	t.completeSent = true
	t.mutex.Unlock()

	event := models.AnalyticsRequest{
		VideoID: t.videoID,
		Event:   models.EventComplete,
	}

	if err := t.client.Track(ctx, event); err != nil {
		t.log.Warn("failed to track complete",
			slog.String("op", op),
			slog.String("videoId", t.videoID),
			sl.Err(err),
		)
	}
}

// ViewSent reports whether the view event already fired.
func (t *Tracker) ViewSent() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.viewSent
}

// CompleteSent reports whether the complete event already fired.
func (t *Tracker) CompleteSent() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.completeSent
}
