package domain

import "errors"

var (
	// ErrNoDocument is returned when a translate action has nothing to work on.
	ErrNoDocument = errors.New("no document uploaded")
	// ErrUnsupportedMedia is returned for media types other than PDF, JPEG and PNG.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrUndetectable is returned when no language can be identified.
	ErrUndetectable = errors.New("language could not be detected")
	// ErrCorruptHistory wraps parse failures of the history file.
	ErrCorruptHistory = errors.New("history file is corrupt")
	// ErrUnsupportedLanguage flags a target outside the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
