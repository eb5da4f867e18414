package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/storage"
	"github.com/avoronin/clipcast/internal/storage/sqlite"
)

func newStorage(t *testing.T) *sqlite.Storage {
	t.Helper()

	s, err := sqlite.New(filepath.Join(t.TempDir(), "clipcast.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Stop() })

	return s
}

func TestRoundtrip(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	rec := models.VideoRecord{
		ID:           "a1",
		Filename:     "a1.webm",
		OriginalName: "recording.webm",
		CreatedAt:    time.Now().UTC(),
		Duration:     0,
	}

	require.NoError(t, s.SaveVideo(ctx, rec))

	got, err := s.Video(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.OriginalName, got.OriginalName)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))

	err = s.SaveVideo(ctx, rec)
	assert.ErrorIs(t, err, storage.ErrVideoExists)

	_, err = s.Video(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrVideoNotFound)
}

func TestUpdate(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	rec := models.VideoRecord{
		ID:        "a1",
		Filename:  "a1.webm",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveVideo(ctx, rec))

	rec.Views = 5
	rec.Completions = 2
	rec.Duration = 33.25
	require.NoError(t, s.UpdateVideo(ctx, rec))

	got, err := s.Video(ctx, "a1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.Views)
	assert.EqualValues(t, 2, got.Completions)
	assert.EqualValues(t, 33.25, got.Duration)

	rec.ID = "missing"
	err = s.UpdateVideo(ctx, rec)
	assert.ErrorIs(t, err, storage.ErrVideoNotFound)
}

func TestAllVideos(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	got, err := s.AllVideos(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, id := range []string{"a1", "a2", "a3"} {
		require.NoError(t, s.SaveVideo(ctx, models.VideoRecord{
			ID:        id,
			Filename:  id + ".webm",
			CreatedAt: time.Now().UTC(),
		}))
	}

	got, err = s.AllVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
