package fermentation

import "errors"

var (
	ErrUnknownSampleType = errors.New("unknown sample type")
	ErrUnknownStatus     = errors.New("unknown fermentation status")

	ErrFermentationNotFound = errors.New("fermentation not found")
	ErrDuplicateSample      = errors.New("sample with the same type and timestamp already exists")
	ErrStatusConflict       = errors.New("fermentation status changed concurrently")

	ErrFailedToAcquireLock         = errors.New("failed to acquire fermentation lock")
	ErrFailedToLoadFermentation    = errors.New("failed to load fermentation")
	ErrFailedToCreateFermentation  = errors.New("failed to create fermentation")
	ErrFailedToRecordSample        = errors.New("failed to record sample")
	ErrFailedToCheckDuplicate      = errors.New("failed to check duplicate sample timestamp")
	ErrFailedToUpdateStatus        = errors.New("failed to update fermentation status")
	ErrFailedToLoadCompletionInput = errors.New("failed to load completion input")
)
