package renderer

import "errors"

var (
	ErrInvalidCamera   = errors.New("renderer: invalid camera configuration")
	ErrInvalidSampling = errors.New("renderer: invalid sampling configuration")
	ErrNoWorld         = errors.New("renderer: no world defined")
	ErrInterrupted     = errors.New("renderer: interrupted while rendering")
	ErrPixelOutOfRange = errors.New("renderer: pixel outside the image")
)
