package service_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service"
	video "github.com/avoronin/clipcast/internal/service/video"
	"github.com/avoronin/clipcast/internal/storage"
)

type fakeStorage struct {
	videos map[string]models.VideoRecord
	order  []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{videos: make(map[string]models.VideoRecord)}
}

func (s *fakeStorage) SaveVideo(_ context.Context, v models.VideoRecord) error {
	if _, ok := s.videos[v.ID]; ok {
		return storage.ErrVideoExists
	}
	s.videos[v.ID] = v
	s.order = append(s.order, v.ID)
	return nil
}

func (s *fakeStorage) Video(_ context.Context, id string) (models.VideoRecord, error) {
	v, ok := s.videos[id]
	if !ok {
		return models.VideoRecord{}, storage.ErrVideoNotFound
	}
	return v, nil
}

func (s *fakeStorage) AllVideos(_ context.Context) ([]models.VideoRecord, error) {
	res := make([]models.VideoRecord, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, s.videos[id])
	}
	return res, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	st := newFakeStorage()
	srv := video.New(discardLogger(), st, dir)

	blob := models.Blob{Data: []byte("webm bytes"), MIME: models.MIMEWebm}

	rec, err := srv.Upload(context.Background(), blob, "demo.webm")
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, rec.ID+".webm", rec.Filename)
	assert.Equal(t, "demo.webm", rec.OriginalName)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.EqualValues(t, 0, rec.Views)
	assert.EqualValues(t, 0, rec.Completions)
	assert.EqualValues(t, 0, rec.Duration)

	data, err := os.ReadFile(filepath.Join(dir, rec.Filename))
	require.NoError(t, err)
	assert.Equal(t, blob.Data, data)

	stored, err := srv.Video(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, stored)
}

func TestUploadEmptyBlob(t *testing.T) {
	srv := video.New(discardLogger(), newFakeStorage(), t.TempDir())

	_, err := srv.Upload(context.Background(), models.Blob{}, "demo.webm")
	assert.ErrorIs(t, err, service.ErrEmptyBlob)
}

func TestUploadDistinctIDs(t *testing.T) {
	srv := video.New(discardLogger(), newFakeStorage(), t.TempDir())
	blob := models.Blob{Data: []byte("webm bytes"), MIME: models.MIMEWebm}

	first, err := srv.Upload(context.Background(), blob, "same.webm")
	require.NoError(t, err)
	second, err := srv.Upload(context.Background(), blob, "same.webm")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestVideoNotFound(t *testing.T) {
	srv := video.New(discardLogger(), newFakeStorage(), t.TempDir())

	_, err := srv.Video(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrVideoNotFound)
}

func TestSearchVideos(t *testing.T) {
	st := newFakeStorage()
	srv := video.New(discardLogger(), st, t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"standup demo", "sprint review", "Démo take two"} {
		_, err := srv.Upload(ctx, models.Blob{Data: []byte("x"), MIME: models.MIMEWebm}, name)
		require.NoError(t, err)
	}

	all, err := srv.SearchVideos(ctx, models.VideoFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// search ranks everything by name closeness, it never excludes
	got, err := srv.SearchVideos(ctx, models.VideoFilter{Name: "standup demo"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "standup demo", got[0].OriginalName)

	// case and diacritics are folded away before ranking
	got, err = srv.SearchVideos(ctx, models.VideoFilter{Name: "démo take two"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Démo take two", got[0].OriginalName)

	limited, err := srv.SearchVideos(ctx, models.VideoFilter{Name: "sprint review", MaxRespLen: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "sprint review", limited[0].OriginalName)
}
