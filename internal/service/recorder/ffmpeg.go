package recorder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	"github.com/avoronin/clipcast/internal/lib/utils/writer"
	"github.com/avoronin/clipcast/internal/models"
)

const startupGrace = 300 * time.Millisecond

// FFmpegSource captures the screen with ffmpeg (x11grab,
// optionally mixing a pulse audio device) and emits webm
// chunks from its stdout on a fixed interval.
type FFmpegSource struct {
	log           *slog.Logger
	display       string
	audioDevice   string
	chunkInterval time.Duration
}

func NewFFmpegSource(
	log *slog.Logger,
	display string,
	audioDevice string,
	chunkInterval time.Duration,
) *FFmpegSource {
	return &FFmpegSource{
		log:           log,
		display:       display,
		audioDevice:   audioDevice,
		chunkInterval: chunkInterval,
	}
}

func (s *FFmpegSource) Open(ctx context.Context, opts CaptureOptions) (Stream, error) {
	const op = "FFmpegSource.Open"

	log := s.log.With(
		slog.String("op", op),
	)

	args := []string{
		"-loglevel", "error",
		"-f", "x11grab",
		"-framerate", strconv.Itoa(opts.FrameRate),
		"-i", s.display,
	}
	if opts.Mic {
		args = append(args,
			"-f", "pulse",
			"-i", s.audioDevice,
			"-c:a", "libopus",
		)
	}
	args = append(args,
		"-c:v", "libvpx",
		"-deadline", "realtime",
		"-f", "webm",
		"pipe:1",
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	errWriter := writer.New()
	cmd.Stderr = errWriter

	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// a bad device makes ffmpeg die right away,
	// catch that here so the caller can degrade
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()

	select {
	case err := <-exited:
		log.Warn("ffmpeg exited on start", sl.Err(fmt.Errorf("%v: %s", err, errWriter.String())))
		return nil, fmt.Errorf("%s: ffmpeg exited: %s", op, errWriter.String())
	case <-time.After(startupGrace):
	}

	st := &ffmpegStream{
		cmd:    cmd,
		out:    out,
		exited: exited,
		errW:   errWriter,
		chunks: make(chan models.Chunk),
	}

	go st.run(s.chunkInterval)

	log.Info("capture opened", slog.Bool("mic", opts.Mic))

	return st, nil
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	exited chan error
	errW   *writer.ByteWriter

	chunks    chan models.Chunk
	closeOnce sync.Once
}

func (st *ffmpegStream) Chunks() <-chan models.Chunk {
	return st.chunks
}

// run reads encoded output and flushes a chunk per interval.
// Ends when ffmpeg closes stdout, whether stopped via Close
// or killed externally.
func (st *ffmpegStream) run(interval time.Duration) {
	defer close(st.chunks)

	raw := make(chan []byte)
	go func() {
		defer close(raw)
		buf := make([]byte, 32*1024)
		for {
			n, err := st.out.Read(buf)
			if n > 0 {
				data := make([]byte, n)
				copy(data, buf[:n])
				raw <- data
			}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending []byte

	for {
		select {
		case data, ok := <-raw:
			if !ok {
				if len(pending) > 0 {
					st.chunks <- models.Chunk{Data: pending}
				}
				<-st.exited
				return
			}
			pending = append(pending, data...)
		case <-ticker.C:
			if len(pending) > 0 {
				st.chunks <- models.Chunk{Data: pending}
				pending = nil
			}
		}
	}
}

func (st *ffmpegStream) Pause() error {
	return st.cmd.Process.Signal(syscall.SIGSTOP)
}

func (st *ffmpegStream) Resume() error {
	return st.cmd.Process.Signal(syscall.SIGCONT)
}

// Close asks ffmpeg to finish so the container trailer gets
// written. Safe to call multiple times and after the process
// is already gone.
func (st *ffmpegStream) Close() error {
	st.closeOnce.Do(func() {
		// resume first, a paused process ignores SIGINT
		_ = st.cmd.Process.Signal(syscall.SIGCONT)
		_ = st.cmd.Process.Signal(syscall.SIGINT)
	})

	return nil
}
