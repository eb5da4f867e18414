package service

import "errors"

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrEmptyBlob     = errors.New("empty blob")

	ErrEngineNotReady = errors.New("engine not ready")
	ErrTrimFailed     = errors.New("trim failed")

	ErrCaptureDenied = errors.New("capture denied")
)
