package httpserver

import (
	"errors"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/bryanwahyu/devscreen/internal/application/screenings"
	"github.com/bryanwahyu/devscreen/internal/domain/ai"
	"github.com/bryanwahyu/devscreen/internal/domain/questionnaire"
	domain "github.com/bryanwahyu/devscreen/internal/domain/screening"
	"github.com/bryanwahyu/devscreen/internal/middleware"
)

var errUploadsDisabled = eris.New("video uploads are not configured")

func validationError(msg string) error {
	return eris.Wrap(middleware.ErrValidation, msg)
}

// tooLargeOr maps a MaxBytesReader overflow onto the domain size error.
func tooLargeOr(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return eris.Wrapf(domain.ErrVideoTooLarge, "limit %d bytes", mbe.Limit)
	}
	return validationError("invalid multipart form")
}

// classify maps an error onto a status code and client-facing message.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, questionnaire.ErrScreeningUnavailable):
		return http.StatusUnprocessableEntity, questionnaire.ErrScreeningUnavailable.Error()
	case errors.Is(err, domain.ErrVideoTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, ai.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "ai quota exceeded"
	case errors.Is(err, errUploadsDisabled):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, middleware.ErrValidation),
		errors.Is(err, screenings.ErrInvalidCommand),
		errors.Is(err, questionnaire.ErrInvalidResponse),
		errors.Is(err, domain.ErrInvalidVideo),
		errors.Is(err, domain.ErrInvalidReview),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
