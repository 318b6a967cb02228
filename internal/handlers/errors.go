package handlers

import (
	"errors"
	"net/http"

	"github.com/14kear/online_voting/polls-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const serverErrorMessage = "Server error"

// bindMessages holds the responses for missing required request fields,
// keyed by struct field name. They match the messages the services return
// for the same conditions.
var bindMessages = map[string]string{
	"Question":  "Question and at least 2 options required",
	"Options":   "Question and at least 2 options required",
	"StartDate": "startDate and endDate required",
	"EndDate":   "startDate and endDate required",
	"OptionID":  "optionId required",
	"Email":     "Email and password required",
	"Password":  "Email and password required",
}

// bindErrorMessage reports the first failed binding rule, or "invalid
// input" when the body could not be decoded at all.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := bindMessages[verrs[0].Field()]; ok {
			return msg
		}
	}

	return "invalid input"
}

// writeError maps the service error taxonomy to a status code. Internal
// faults are answered without detail; they are logged by the service.
func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"message": serverErrorMessage})
		return
	}

	msg := http.StatusText(status)
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		msg = svcErr.Msg
	}

	c.JSON(status, gin.H{"message": msg})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrDuplicateVote),
		errors.Is(err, services.ErrInvalidOption):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
