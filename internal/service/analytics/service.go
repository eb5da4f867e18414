package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service"
	"github.com/avoronin/clipcast/internal/storage"
)

type Analytics struct {
	log          *slog.Logger
	videoStorage VideoStorage
}

type VideoStorage interface {
	Video(ctx context.Context, id string) (models.VideoRecord, error)
	UpdateVideo(ctx context.Context, video models.VideoRecord) error
}

func New(
	log *slog.Logger,
	videoStorage VideoStorage,
) *Analytics {
	return &Analytics{
		log:          log,
		videoStorage: videoStorage,
	}
}

// Track applies one analytics event to a record.
//
// Every call increments again: reloading the watch page counts
// as another view. Deduplication happens only on the sending
// side, within one page load.
func (a *Analytics) Track(ctx context.Context, req models.AnalyticsRequest) error {
	const op = "Analytics.Track"

	log := a.log.With(
		slog.String("op", op),
		slog.String("videoId", req.VideoID),
		slog.String("event", req.Event),
	)

	video, err := a.videoStorage.Video(ctx, req.VideoID)
	if err != nil {
		if errors.Is(err, storage.ErrVideoNotFound) {
			log.Warn("video not found")
			return service.ErrVideoNotFound
		}
		log.Error("failed to get video", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	switch req.Event {
	case models.EventView:
		video.Views++
		if req.Duration != nil && *req.Duration > 0 {
			video.Duration = *req.Duration
		}
	case models.EventComplete:
		video.Completions++
	default:
		// unknown events are acknowledged without mutation
		log.Warn("unknown event")
		return nil
	}

	if err := a.videoStorage.UpdateVideo(ctx, video); err != nil {
		log.Error("failed to update video", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("tracked event",
		slog.Int64("views", video.Views),
		slog.Int64("completions", video.Completions),
	)

	return nil
}
