package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/avoronin/clipcast/internal/lib/ffmpeg"
	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service"
	"github.com/avoronin/clipcast/internal/storage"
)

type Video struct {
	log          *slog.Logger
	videoStorage VideoStorage
	uploadDir    string
}

type VideoStorage interface {
	SaveVideo(ctx context.Context, video models.VideoRecord) error
	Video(ctx context.Context, id string) (models.VideoRecord, error)
	AllVideos(ctx context.Context) ([]models.VideoRecord, error)
}

func New(
	log *slog.Logger,
	videoStorage VideoStorage,
	uploadDir string,
) *Video {
	return &Video{
		log:          log,
		videoStorage: videoStorage,
		uploadDir:    uploadDir,
	}
}

// Upload stores blob under a generated id and registers
// a record with zero counters. Duration stays unknown until
// the first playback reports it.
func (v *Video) Upload(ctx context.Context, blob models.Blob, originalName string) (models.VideoRecord, error) {
	const op = "Video.Upload"

	log := v.log.With(
		slog.String("op", op),
	)

	if blob.Empty() {
		log.Warn("rejecting empty blob")
		return models.VideoRecord{}, service.ErrEmptyBlob
	}

	log.Info("uploading video", slog.Int64("size", blob.Size()))

	id := uuid.NewString()
	filename := ffmpeg.UploadFile(id)

	if err := os.MkdirAll(v.uploadDir, 0o755); err != nil {
		log.Error("failed to create upload dir", sl.Err(err))
		return models.VideoRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	path := filepath.Join(v.uploadDir, filename)
	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		log.Error("failed to write video file", slog.String("file", path), sl.Err(err))
		return models.VideoRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	video := models.VideoRecord{
		ID:           id,
		Filename:     filename,
		OriginalName: originalName,
		CreatedAt:    time.Now().UTC(),
		Views:        0,
		Completions:  0,
		Duration:     0,
	}

	if err := v.videoStorage.SaveVideo(ctx, video); err != nil {
		log.Error("failed to save video record", slog.String("id", id), sl.Err(err))
		return models.VideoRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("uploaded video", slog.String("id", id))

	return video, nil
}

// Video returns video record by given id.
//
// If video with given id does not exist, returns error.
func (v *Video) Video(ctx context.Context, id string) (models.VideoRecord, error) {
	const op = "Video.Video"

	log := v.log.With(
		slog.String("op", op),
	)

	video, err := v.videoStorage.Video(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrVideoNotFound) {
			log.Warn("video not found", slog.String("id", id))
			return models.VideoRecord{}, service.ErrVideoNotFound
		}
		log.Error("failed to get video", slog.String("id", id), sl.Err(err))
		return models.VideoRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return video, nil
}

// SearchVideos returns records filtered and ranked
// by name closeness. Empty filter returns everything
// in store order.
func (v *Video) SearchVideos(ctx context.Context, filter models.VideoFilter) ([]models.VideoRecord, error) {
	const op = "Video.SearchVideos"

	log := v.log.With(
		slog.String("op", op),
	)

	videos, err := v.videoStorage.AllVideos(ctx)
	if err != nil {
		log.Error("failed to get videos", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if filter.Name != "" {
		ranked := filterRank(videos, filter)
		videos = videos[:0]
		for _, r := range ranked {
			videos = append(videos, r.video)
		}
	}

	if filter.MaxRespLen > 0 && len(videos) > filter.MaxRespLen {
		videos = videos[:filter.MaxRespLen]
	}

	log.Info("found videos", slog.Int("count", len(videos)))

	return videos, nil
}
