package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronin/clipcast/internal/models"
	"github.com/avoronin/clipcast/internal/service/pipeline"
)

func TestHappyPath(t *testing.T) {
	recorded := models.Blob{Data: []byte("raw"), MIME: models.MIMEWebm}
	trimmed := models.Blob{Data: []byte("cut"), MIME: models.MIMEWebm}

	s := pipeline.Initial()
	assert.Equal(t, pipeline.StageRecord, s.Stage)

	s, err := pipeline.Next(s, pipeline.RecordingDone{Blob: recorded})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageTrim, s.Stage)
	assert.Equal(t, recorded, s.Current())

	s, err = pipeline.Next(s, pipeline.TrimDone{Blob: trimmed})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageUpload, s.Stage)
	assert.Equal(t, trimmed, s.Current())

	s, err = pipeline.Next(s, pipeline.UploadDone{URL: "http://localhost:8082/watch/a1"})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageDone, s.Stage)
	assert.Equal(t, "http://localhost:8082/watch/a1", s.ShareURL)

	s, err = pipeline.Next(s, pipeline.Reset{})
	require.NoError(t, err)
	assert.Equal(t, pipeline.Initial(), s)
}

func TestBackToTrimDiscardsTrimmed(t *testing.T) {
	recorded := models.Blob{Data: []byte("raw"), MIME: models.MIMEWebm}

	s := pipeline.Initial()
	s, err := pipeline.Next(s, pipeline.RecordingDone{Blob: recorded})
	require.NoError(t, err)
	s, err = pipeline.Next(s, pipeline.TrimDone{Blob: models.Blob{Data: []byte("cut")}})
	require.NoError(t, err)

	s, err = pipeline.Next(s, pipeline.BackToTrim{})
	require.NoError(t, err)
	assert.Equal(t, pipeline.StageTrim, s.Stage)
	assert.Equal(t, recorded, s.Recorded)
	assert.True(t, s.Trimmed.Empty())
	assert.Empty(t, s.ShareURL)
}

func TestTrimCancelledDiscardsRecording(t *testing.T) {
	s := pipeline.Initial()
	s, err := pipeline.Next(s, pipeline.RecordingDone{Blob: models.Blob{Data: []byte("raw")}})
	require.NoError(t, err)

	s, err = pipeline.Next(s, pipeline.TrimCancelled{})
	require.NoError(t, err)
	assert.Equal(t, pipeline.Initial(), s)
}

func TestBadTransitions(t *testing.T) {
	cases := []struct {
		name  string
		state pipeline.State
		event pipeline.Event
	}{
		{"trim before recording", pipeline.Initial(), pipeline.TrimDone{}},
		{"upload before recording", pipeline.Initial(), pipeline.UploadDone{URL: "u"}},
		{"reset mid-session", pipeline.State{Stage: pipeline.StageTrim}, pipeline.Reset{}},
		{"record twice", pipeline.State{Stage: pipeline.StageUpload}, pipeline.RecordingDone{}},
		{"back from done", pipeline.State{Stage: pipeline.StageDone}, pipeline.BackToTrim{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := pipeline.Next(c.state, c.event)
			assert.ErrorIs(t, err, pipeline.ErrBadTransition)
			assert.Equal(t, c.state, got, "state must be unchanged")
		})
	}
}
