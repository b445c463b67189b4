package questionnaire

import "github.com/rotisserie/eris"

// ErrScreeningUnavailable is returned when no questionnaire exists for the child's age.
var ErrScreeningUnavailable = eris.New("screening unavailable for this age")

// ErrInvalidResponse indicates a response that does not match its definition.
var ErrInvalidResponse = eris.New("invalid questionnaire response")

// ErrInvalidCatalog indicates a questionnaire document that failed validation.
var ErrInvalidCatalog = eris.New("invalid questionnaire catalog")
