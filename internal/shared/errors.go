package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")
	ErrInterrupted    = fmt.Errorf("interrupted")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Retrieval errors
	ErrResolution         = fmt.Errorf("channel id not found")
	ErrFeedFetch          = fmt.Errorf("feed request failed")
	ErrFeedEmpty          = fmt.Errorf("feed has no entries")
	ErrFallback           = fmt.Errorf("fallback listing failed")
	ErrToolTimeout        = fmt.Errorf("external tool timed out")
	ErrToolFailed         = fmt.Errorf("external tool failed")
	ErrToolNotInstalled   = fmt.Errorf("external tool not installed")
	ErrMalformedOutput    = fmt.Errorf("malformed tool output")
	ErrEmptyOutput        = fmt.Errorf("empty tool output")
	ErrContentUnavailable = fmt.Errorf("content private or unavailable")

	// Storage errors
	ErrStorageCorrupt = fmt.Errorf("storage data corrupted")

	// Gist errors
	ErrGistUnavailable = fmt.Errorf("gist sync unavailable")
	ErrGistRequest     = fmt.Errorf("gist request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
