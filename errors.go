package swatch

import "errors"

var (
	// ErrNoPhoto is returned by operations that need a loaded base photo.
	ErrNoPhoto = errors.New("swatch: no photo loaded")

	// ErrBusy is returned by Click while a previous click is still being
	// segmented.
	ErrBusy = errors.New("swatch: segmentation in progress")

	// ErrUnknownPolicy is returned when a selection policy name is not
	// add, subtract or replace.
	ErrUnknownPolicy = errors.New("swatch: unknown selection policy")

	// ErrPhotoChanged is returned by Click when the photo was replaced
	// while the clicked region was being grown.
	ErrPhotoChanged = errors.New("swatch: photo changed during click")

	// ErrSessionClosed is returned after Close.
	ErrSessionClosed = errors.New("swatch: session closed")
)
