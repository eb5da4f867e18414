// Command recorder drives the whole pipeline headlessly:
// capture the screen until interrupted, optionally trim,
// upload to the clipcast server and print the share link.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/avoronin/clipcast/internal/client/api"
	"github.com/avoronin/clipcast/internal/config"
	"github.com/avoronin/clipcast/internal/lib/logger/sl"
	"github.com/avoronin/clipcast/internal/lib/logger/slogpretty"
	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service/pipeline"
	"github.com/avoronin/clipcast/internal/service/recorder"
	"github.com/avoronin/clipcast/internal/service/trim"
)

func main() {
	var (
		trimStart = flag.Duration("start", 0, "trim start offset")
		trimEnd   = flag.Duration("end", 0, "trim end offset (0 keeps the tail)")
		maxLen    = flag.Duration("max", 0, "stop recording after this long (0 waits for interrupt)")
		outFile   = flag.String("o", "", "also save the clip locally")
	)

	// config.MustLoad parses the flags
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	if err := run(cfg, log, *trimStart, *trimEnd, *maxLen, *outFile); err != nil {
		log.Error("pipeline failed", sl.Err(err))
		os.Exit(1)
	}
}

func run(
	cfg *config.Config,
	log *slog.Logger,
	trimStart, trimEnd, maxLen time.Duration,
	outFile string,
) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src := recorder.NewFFmpegSource(
		log,
		cfg.Recorder.Display,
		cfg.Recorder.AudioDevice,
		cfg.Recorder.ChunkInterval,
	)
	rec := recorder.New(log, src, cfg.Recorder.FrameRate)

	engine := trim.NewFFmpegEngine(log, cfg.TmpDir)
	trimmer := trim.New(log, engine)

	// load in the background like the browser fetches the
	// wasm engine; failure leaves only the skip path
	go func() {
		_ = trimmer.LoadEngine(context.Background())
	}()

	client := api.New(log, cfg.Recorder.ServerURL, cfg.Timeout)

	state := pipeline.Initial()

	// Capture
	if err := rec.Start(ctx); err != nil {
		return err
	}

	log.Info("recording, interrupt to stop")

	if maxLen > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(maxLen):
		}
	} else {
		<-ctx.Done()
	}

	if err := rec.Stop(); err != nil {
		return err
	}

	blob := <-rec.Blob()

	state, err := pipeline.Next(state, pipeline.RecordingDone{Blob: blob})
	if err != nil {
		return err
	}

	// Trim
	out := trimmer.Skip(state.Current())
	if trimStart > 0 || trimEnd > 0 {
		trimmed, err := trimRange(context.Background(), log, trimmer, engine, state.Current(), trimStart, trimEnd)
		if err != nil {
			log.Warn("trim unavailable, keeping full clip", sl.Err(err))
		} else {
			out = trimmed
		}
	}

	state, err = pipeline.Next(state, pipeline.TrimDone{Blob: out})
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := api.SaveLocal(state.Current(), outFile); err != nil {
			log.Warn("failed to save local copy", sl.Err(err))
		} else {
			log.Info("saved local copy", slog.String("file", outFile))
		}
	}

	// Upload
	res, err := client.Upload(context.Background(), state.Current(), func(p float64) {
		log.Debug("uploading", slog.Int("percent", int(p*100)))
	})
	if err != nil {
		return err
	}

	state, err = pipeline.Next(state, pipeline.UploadDone{URL: res.ShareURL})
	if err != nil {
		return err
	}

	// Share
	fmt.Println(state.ShareURL)

	return nil
}

// trimRange probes the clip, builds a clamped selection and
// extracts it. Any failure falls back to the skip path in run.
func trimRange(
	ctx context.Context,
	log *slog.Logger,
	trimmer *trim.Trim,
	engine *trim.FFmpegEngine,
	blob models.Blob,
	start, end time.Duration,
) (models.Blob, error) {
	// settle the background load before deciding;
	// a second call after success is a no-op
	if err := trimmer.LoadEngine(ctx); err != nil {
		return models.Blob{}, err
	}

	duration, err := engine.Probe(ctx, blob)
	if err != nil {
		return models.Blob{}, err
	}
	if duration < trim.MinGap {
		return models.Blob{}, fmt.Errorf("clip too short to trim: %s", duration)
	}

	sel := trim.NewSelection(duration)
	if end > 0 {
		sel.SetEnd(end)
	}
	sel.SetStart(start)

	log.Info("trim selection",
		slog.Duration("start", sel.Start()),
		slog.Duration("end", sel.End()),
		slog.Duration("duration", duration),
	)

	return trimmer.TrimRange(ctx, blob, sel)
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case "local":
		opts := slogpretty.PrettyHandlerOptions{
			SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
		}
		log = slog.New(opts.NewPrettyHandler(os.Stderr))
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
