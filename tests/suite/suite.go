// Package suite wires a full router over a fresh store for
// integration tests. Requests are served in-process through
// fiber's Test method, no listener and no live server needed.
package suite

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gavv/httpexpect/v2"

	"github.com/avoronin/clipcast/internal/app/router"
	"github.com/avoronin/clipcast/internal/storage/jsonfile"
)

// baseURL is synthetic; nothing listens on it.
const baseURL = "http://clipcast.test"

type Suite struct {
	App       *router.App
	UploadDir string
}

// fiberTransport hands requests to the app directly instead
// of dialing.
type fiberTransport struct {
	app *router.App
}

func (tr fiberTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return tr.app.Test(req)
}

// New builds a router over a jsonfile store in a temp dir and
// returns an httpexpect instance speaking to it.
func New(t *testing.T) (*httpexpect.Expect, *Suite) {
	t.Helper()

	dir := t.TempDir()
	uploadDir := filepath.Join(dir, "uploads")

	storage, err := jsonfile.New(filepath.Join(dir, "videos.json"))
	if err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := router.New(log, storage, "localhost:0", uploadDir)

	e := httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  baseURL,
		Reporter: httpexpect.NewAssertReporter(t),
		Client: &http.Client{
			Transport: fiberTransport{app: app},
		},
	})

	return e, &Suite{
		App:       app,
		UploadDir: uploadDir,
	}
}

// WebmBytes builds a payload that content sniffing
// recognizes as video/webm: EBML magic, then the DocType
// marker, then padding.
func WebmBytes(padding int) []byte {
	data := []byte{0x1A, 0x45, 0xDF, 0xA3}
	data = append(data, []byte("\x42\x82\x84webm")...)
	data = append(data, make([]byte, padding)...)
	return data
}
