// Package jsonfile keeps video records in a single flat JSON
// document. Every mutation rereads and rewrites the whole file
// with no locking: concurrent writers race and the last write
// wins. Callers accept this under low write volume.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/storage"
)

type Storage struct {
	path string
}

type document struct {
	Videos []models.VideoRecord `json:"videos"`
}

func New(path string) (*Storage, error) {
	const op = "storage.jsonfile.New"

	s := &Storage{path: path}

	if err := s.ensure(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) Stop() error {
	return nil
}

// ensure creates the store dir and an empty document
// if they do not exist yet.
func (s *Storage) ensure() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	if _, err := os.Stat(s.path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return s.write(document{Videos: []models.VideoRecord{}})
	}

	return nil
}

func (s *Storage) read() (document, error) {
	var doc document

	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc, err
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, err
	}

	return doc, nil
}

func (s *Storage) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o644)
}

// SaveVideo appends a new record.
func (s *Storage) SaveVideo(ctx context.Context, video models.VideoRecord) error {
	const op = "storage.jsonfile.SaveVideo"

	if err := s.ensure(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	doc, err := s.read()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, v := range doc.Videos {
		if v.ID == video.ID {
			return fmt.Errorf("%s: %w", op, storage.ErrVideoExists)
		}
	}

	doc.Videos = append(doc.Videos, video)

	if err := s.write(doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Video returns record by id.
func (s *Storage) Video(ctx context.Context, id string) (models.VideoRecord, error) {
	const op = "storage.jsonfile.Video"

	if err := s.ensure(); err != nil {
		return models.VideoRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := s.read()
	if err != nil {
		return models.VideoRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, v := range doc.Videos {
		if v.ID == id {
			return v, nil
		}
	}

	return models.VideoRecord{}, fmt.Errorf("%s: %w", op, storage.ErrVideoNotFound)
}

// AllVideos returns every stored record.
func (s *Storage) AllVideos(ctx context.Context) ([]models.VideoRecord, error) {
	const op = "storage.jsonfile.AllVideos"

	if err := s.ensure(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.Videos, nil
}

// UpdateVideo replaces the record with the same id.
func (s *Storage) UpdateVideo(ctx context.Context, video models.VideoRecord) error {
	const op = "storage.jsonfile.UpdateVideo"

	if err := s.ensure(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	doc, err := s.read()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for i, v := range doc.Videos {
		if v.ID == video.ID {
			doc.Videos[i] = video
			if err := s.write(doc); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}

	return fmt.Errorf("%s: %w", op, storage.ErrVideoNotFound)
}
