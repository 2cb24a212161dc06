package renderer

import "errors"

var (
	ErrInvalidFrame     = errors.New("renderer: invalid frame dimensions")
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrInterrupted      = errors.New("renderer: interrupted while rendering")
)
