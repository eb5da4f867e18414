// Package api is the client side of the clipcast HTTP surface:
// multipart upload with progress, analytics posts, and the
// local-save affordance.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"

	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	"github.com/avoronin/clipcast/internal/models"
)

// UploadFieldName is the multipart field the server expects.
const UploadFieldName = "video"

// uploadFilename is the synthetic client-side name; the server
// renames the file by generated id anyway.
const uploadFilename = "recording.webm"

var (
	ErrUploadFailed = errors.New("upload failed")
	ErrTrackFailed  = errors.New("track failed")
)

type Client struct {
	log     *slog.Logger
	baseURL string
	client  *http.Client
}

type UploadResult struct {
	ID       string
	URL      string
	ShareURL string
}

func New(
	log *slog.Logger,
	baseURL string,
	timeout time.Duration,
) *Client {
	return &Client{
		log:     log,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Upload sends blob as a multipart form. onProgress, if not
// nil, receives the sent fraction in [0, 1]. A failed upload
// is retryable with the same blob.
func (c *Client) Upload(ctx context.Context, blob models.Blob, onProgress func(float64)) (UploadResult, error) {
	const op = "api.Upload"

	log := c.log.With(
		slog.String("op", op),
	)

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, UploadFieldName, uploadFilename))
	header.Set("Content-Type", blob.MIME)

	part, err := mw.CreatePart(header)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := part.Write(blob.Data); err != nil {
		return UploadResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("%s: %w", op, err)
	}

	total := int64(buf.Len())
	body := &progressReader{
		r:          &buf,
		total:      total,
		onProgress: onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total

	log.Info("uploading", slog.Int64("size", blob.Size()))

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("upload transport error", sl.Err(err))
		return UploadResult{}, ErrUploadFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error("upload rejected", slog.Int("status", resp.StatusCode))
		return UploadResult{}, ErrUploadFailed
	}

	var form struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&form); err != nil {
		log.Error("invalid upload response", sl.Err(err))
		return UploadResult{}, ErrUploadFailed
	}

	res := UploadResult{
		ID:       form.ID,
		URL:      form.URL,
		ShareURL: c.baseURL + "/watch/" + form.ID,
	}

	log.Info("uploaded", slog.String("id", res.ID))

	return res, nil
}

// Track posts one analytics event. Callers are expected to
// swallow the error: analytics must never block playback.
func (c *Client) Track(ctx context.Context, event models.AnalyticsRequest) error {
	const op = "api.Track"

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analytics", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %w: status %d", op, ErrTrackFailed, resp.StatusCode)
	}

	return nil
}

// SaveLocal writes the blob to the user's disk. No network
// involved, independent of upload state.
func SaveLocal(blob models.Blob, path string) error {
	const op = "api.SaveLocal"

	if err := os.WriteFile(path, blob.Data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	onProgress func(float64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)

	if n > 0 {
		p.sent += int64(n)
		if p.onProgress != nil && p.total > 0 {
			p.onProgress(float64(p.sent) / float64(p.total))
		}
	}

	return n, err
}
