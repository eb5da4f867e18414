package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/storage"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS videos(
			id            TEXT PRIMARY KEY,
			filename      TEXT NOT NULL,
			original_name TEXT NOT NULL,
			created_at    TIMESTAMP NOT NULL,
			views         INTEGER NOT NULL DEFAULT 0,
			completions   INTEGER NOT NULL DEFAULT 0,
			duration      REAL NOT NULL DEFAULT 0
		)`,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Stop() error {
	return s.db.Close()
}

// SaveVideo saves video record.
func (s *Storage) SaveVideo(ctx context.Context, video models.VideoRecord) error {
	const op = "storage.sqlite.SaveVideo"

	stmt, err := s.db.Prepare(
		"INSERT INTO videos(id, filename, original_name, created_at, views, completions, duration) VALUES(?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx,
		video.ID,
		video.Filename,
		video.OriginalName,
		video.CreatedAt,
		video.Views,
		video.Completions,
		video.Duration,
	); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%s: %w", op, storage.ErrVideoExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Video returns video record by given id.
func (s *Storage) Video(ctx context.Context, id string) (models.VideoRecord, error) {
	const op = "storage.sqlite.Video"

	stmt, err := s.db.Prepare(
		"SELECT id, filename, original_name, created_at, views, completions, duration FROM videos WHERE id = ?",
	)
	if err != nil {
		return models.VideoRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var video models.VideoRecord

	err = stmt.QueryRowContext(ctx, id).Scan(
		&video.ID,
		&video.Filename,
		&video.OriginalName,
		&video.CreatedAt,
		&video.Views,
		&video.Completions,
		&video.Duration,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VideoRecord{}, fmt.Errorf("%s: %w", op, storage.ErrVideoNotFound)
		}
		return models.VideoRecord{}, fmt.Errorf("%s: %w", op, err)
	}

	return video, nil
}

// AllVideos returns all registered video records.
func (s *Storage) AllVideos(ctx context.Context) ([]models.VideoRecord, error) {
	const op = "storage.sqlite.AllVideos"

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, filename, original_name, created_at, views, completions, duration FROM videos",
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	videos := make([]models.VideoRecord, 0)

	for rows.Next() {
		var video models.VideoRecord
		if err := rows.Scan(
			&video.ID,
			&video.Filename,
			&video.OriginalName,
			&video.CreatedAt,
			&video.Views,
			&video.Completions,
			&video.Duration,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return videos, nil
}

// UpdateVideo updates record with the same id.
func (s *Storage) UpdateVideo(ctx context.Context, video models.VideoRecord) error {
	const op = "storage.sqlite.UpdateVideo"

	stmt, err := s.db.Prepare(
		"UPDATE videos SET filename = ?, original_name = ?, created_at = ?, views = ?, completions = ?, duration = ? WHERE id = ?",
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx,
		video.Filename,
		video.OriginalName,
		video.CreatedAt,
		video.Views,
		video.Completions,
		video.Duration,
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrVideoNotFound)
	}

	return nil
}
