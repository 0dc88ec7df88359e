package cli

import "errors"

var (
	ErrUnknownLockBackend  = errors.New("unknown lock backend")
	ErrInvalidFermentation = errors.New("invalid fermentation id")
	ErrInvalidCSVHeader    = errors.New("invalid csv header")
	ErrFailedToReadCSV     = errors.New("failed to read csv")
	ErrRowsRejected        = errors.New("some rows were rejected")
	ErrRejected            = errors.New("rejected by validation")
)
