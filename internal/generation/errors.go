package generation

import "errors"

// Common generation errors
var (
	// ErrGenerationFailed indicates the generation service failed after
	// exhausting retries.
	ErrGenerationFailed = errors.New("card generation failed")

	// ErrInvalidResponse indicates the generation service returned a
	// response that could not be parsed into card drafts.
	ErrInvalidResponse = errors.New("invalid generation response")

	// ErrContentBlocked indicates the generation service refused the
	// request on safety grounds. Permanent; never retried.
	ErrContentBlocked = errors.New("generated content blocked by safety filters")

	// ErrInvalidConfig indicates the generator was constructed with
	// incomplete or invalid configuration.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyTopic indicates a generation request with no topic text.
	ErrEmptyTopic = errors.New("generation topic cannot be empty")
)
