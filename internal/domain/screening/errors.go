package screening

import "github.com/rotisserie/eris"

var (
	ErrNotFound          = eris.New("screening not found")
	ErrInvalidTransition = eris.New("invalid status transition")
	ErrInvalidReview     = eris.New("invalid review")
	ErrInvalidVideo      = eris.New("invalid video reference")
	ErrVideoTooLarge     = eris.New("video exceeds size limit")
)
