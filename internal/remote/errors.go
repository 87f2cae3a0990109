package remote

import "errors"

var (
	ErrEmptyURL         = errors.New("please enter a remote URL")
	ErrNotConnected     = errors.New("not connected to the remote backend")
	ErrRemoteBusy       = errors.New("remote backend is busy")
	ErrEndpointNotFound = errors.New("could not find generate endpoint")
	ErrNoVideo          = errors.New("remote backend returned no video")
)
