package trim

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/avoronin/clipcast/internal/lib/ffmpeg"
	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	"github.com/avoronin/clipcast/internal/lib/utils/writer"
	"github.com/avoronin/clipcast/internal/models"
)

// FFmpegEngine extracts ranges by stream copy, no re-encoding.
type FFmpegEngine struct {
	log    *slog.Logger
	tmpDir string
	bin    string
}

func NewFFmpegEngine(
	log *slog.Logger,
	tmpDir string,
) *FFmpegEngine {
	return &FFmpegEngine{
		log:    log,
		tmpDir: tmpDir,
	}
}

// Load resolves the ffmpeg binary.
func (e *FFmpegEngine) Load(ctx context.Context) error {
	const op = "FFmpegEngine.Load"

	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	e.bin = bin

	return nil
}

// ExtractRange copies [start, end) of blob into a new blob.
func (e *FFmpegEngine) ExtractRange(ctx context.Context, blob models.Blob, start, end time.Duration) (models.Blob, error) {
	const op = "FFmpegEngine.ExtractRange"

	log := e.log.With(
		slog.String("op", op),
	)

	if e.bin == "" {
		return models.Blob{}, fmt.Errorf("%s: engine not loaded", op)
	}

	in, err := os.CreateTemp(e.tmpDir, "trim-in-*.webm")
	if err != nil {
		return models.Blob{}, fmt.Errorf("%s: %w", op, err)
	}
	inName := in.Name()
	defer os.Remove(inName)

	if _, err := in.Write(blob.Data); err != nil {
		in.Close()
		return models.Blob{}, fmt.Errorf("%s: %w", op, err)
	}
	in.Close()

	outName := inName + ".out.webm"
	defer os.Remove(outName)

	errWriter := writer.New()

	cmd := exec.CommandContext(ctx, e.bin,
		"-y",
		"-loglevel", "error",
		"-i", inName,
		"-ss", seconds(start),
		"-t", seconds(end-start),
		"-c", "copy",
		outName,
	)
	cmd.Stderr = errWriter

	if err := cmd.Run(); err != nil {
		log.Error("ffmpeg failed", sl.Err(err), slog.String("stderr", errWriter.String()))
		return models.Blob{}, fmt.Errorf("%s: %s", op, errWriter.String())
	}

	data, err := os.ReadFile(outName)
	if err != nil {
		return models.Blob{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Blob{Data: data, MIME: models.MIMEWebm}, nil
}

// Probe returns the playable duration of a blob.
func (e *FFmpegEngine) Probe(ctx context.Context, blob models.Blob) (time.Duration, error) {
	const op = "FFmpegEngine.Probe"

	f, err := os.CreateTemp(e.tmpDir, "probe-*.webm")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.Write(blob.Data); err != nil {
		f.Close()
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	f.Close()

	dur, err := ffmpeg.Duration(name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return dur, nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
