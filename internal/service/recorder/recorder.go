package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	chans "github.com/avoronin/clipcast/internal/lib/utils/channels"
	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service"
)

type State int

const (
	StateIdle State = iota
	StateRecording
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

type CaptureOptions struct {
	FrameRate int
	Mic       bool
}

// Source acquires a capture device.
type Source interface {
	Open(ctx context.Context, opts CaptureOptions) (Stream, error)
}

// Stream is a live capture emitting encoded chunks.
//
// The chunk channel closes when the stream ends, either via
// Close or because the device was revoked externally. Close
// must be idempotent and must release the device on every
// exit path.
type Stream interface {
	Chunks() <-chan models.Chunk
	Pause() error
	Resume() error
	Close() error
}

// Recorder accumulates capture chunks into one blob.
//
// State machine: idle -> recording <-> paused -> stopped.
// External device revocation is treated identically to Stop.
type Recorder struct {
	log       *slog.Logger
	src       Source
	frameRate int

	mutex  sync.Mutex
	state  State
	stream Stream
	chunks []models.Chunk

	blobCh chan models.Blob
}

func New(
	log *slog.Logger,
	src Source,
	frameRate int,
) *Recorder {
	return &Recorder{
		log:       log,
		src:       src,
		frameRate: frameRate,

		state:  StateIdle,
		blobCh: make(chan models.Blob, 1),
	}
}

// Start acquires the capture device and begins collecting
// chunks. Microphone capture is best-effort: if opening with
// mic fails, retries without it. Display capture failure is
// a hard stop for the attempt.
func (r *Recorder) Start(ctx context.Context) error {
	const op = "Recorder.Start"

	log := r.log.With(
		slog.String("op", op),
	)

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.state != StateIdle {
		return fmt.Errorf("%s: recorder is %s", op, r.state)
	}

	stream, err := r.src.Open(ctx, CaptureOptions{FrameRate: r.frameRate, Mic: true})
	if err != nil {
		log.Warn("mic not available, recording without mic", sl.Err(err))

		stream, err = r.src.Open(ctx, CaptureOptions{FrameRate: r.frameRate, Mic: false})
		if err != nil {
			log.Error("failed to open capture", sl.Err(err))
			return service.ErrCaptureDenied
		}
	}

	r.stream = stream
	r.chunks = r.chunks[:0]
	r.state = StateRecording

	go r.collect(stream)

	log.Info("recording started")

	return nil
}

// collect drains the stream until it ends, then emits
// the final blob and tears the device down.
func (r *Recorder) collect(stream Stream) {
	const op = "Recorder.collect"

	log := r.log.With(
		slog.String("op", op),
	)

	for chunk := range stream.Chunks() {
		if len(chunk.Data) == 0 {
			continue
		}
		r.mutex.Lock()
		r.chunks = append(r.chunks, chunk)
		r.mutex.Unlock()
	}

	// stream ended: explicit stop and external
	// revocation land here identically
	if err := stream.Close(); err != nil {
		log.Warn("failed to close stream", sl.Err(err))
	}

	r.mutex.Lock()

	var size int
	for _, c := range r.chunks {
		size += len(c.Data)
	}

	data := make([]byte, 0, size)
	for _, c := range r.chunks {
		data = append(data, c.Data...)
	}
	r.chunks = nil

	blob := models.Blob{Data: data, MIME: models.MIMEWebm}

	r.state = StateStopped
	r.stream = nil

	r.mutex.Unlock()

	log.Info("recording stopped", slog.Int64("size", blob.Size()))

	chans.Send(r.blobCh, blob)
}

// TogglePause switches between recording and paused.
func (r *Recorder) TogglePause() (State, error) {
	const op = "Recorder.TogglePause"

	r.mutex.Lock()
	defer r.mutex.Unlock()

	switch r.state {
	case StateRecording:
		if err := r.stream.Pause(); err != nil {
			return r.state, fmt.Errorf("%s: %w", op, err)
		}
		r.state = StatePaused
	case StatePaused:
		if err := r.stream.Resume(); err != nil {
			return r.state, fmt.Errorf("%s: %w", op, err)
		}
		r.state = StateRecording
	default:
		return r.state, fmt.Errorf("%s: recorder is %s", op, r.state)
	}

	return r.state, nil
}

// Stop ends the capture. The final blob arrives on Blob
// once the stream drains. Stopping an already stopped
// recorder is a no-op.
func (r *Recorder) Stop() error {
	const op = "Recorder.Stop"

	r.mutex.Lock()
	defer r.mutex.Unlock()

	switch r.state {
	case StateRecording, StatePaused:
		return r.stream.Close()
	case StateStopped:
		return nil
	}

	return fmt.Errorf("%s: recorder is %s", op, r.state)
}

// Blob delivers the final concatenated blob, once per recording.
func (r *Recorder) Blob() <-chan models.Blob {
	return r.blobCh
}

func (r *Recorder) State() State {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.state
}
