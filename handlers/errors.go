package handlers

import (
	"errors"
	"net/http"

	"servana/database/rest"
	"servana/services/availability"
	"servana/services/booking"
	"servana/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the engine's error taxonomy onto HTTP responses. The
// detail string is always populated with the best available message.
func respondError(c *gin.Context, err error) {
	var validationErr *availability.ValidationError
	if errors.As(err, &validationErr) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", validationErr.Error())
		return
	}

	var flowErr *booking.FlowError
	if errors.As(err, &flowErr) {
		utils.JSONError(c, flowStatus(flowErr), flowErr.Message, flowErr.Code)
		return
	}

	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case rest.KindAuth:
			utils.JSONError(c, http.StatusUnauthorized, "Session expired, please sign in again", apiErr.Message)
		case rest.KindNotFound:
			utils.JSONError(c, http.StatusNotFound, "Not found", apiErr.Message)
		case rest.KindConflict:
			utils.JSONError(c, http.StatusConflict, conflictMessage(apiErr), apiErr.Message)
		case rest.KindValidation:
			utils.JSONError(c, http.StatusBadRequest, "Invalid request", apiErr.Message)
		case rest.KindNetwork:
			utils.JSONError(c, http.StatusServiceUnavailable, "Service temporarily unavailable", apiErr.Message)
		default:
			utils.JSONError(c, http.StatusBadGateway, "Upstream error", apiErr.Message)
		}
		return
	}

	utils.JSONError(c, http.StatusInternalServerError, "Something went wrong", err.Error())
}

func flowStatus(err *booking.FlowError) int {
	switch err {
	case booking.ErrSessionNotFound:
		return http.StatusNotFound
	case booking.ErrNotOwner:
		return http.StatusForbidden
	case booking.ErrNotCancellable, booking.ErrNotReschedulable:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func conflictMessage(err *rest.APIError) string {
	switch err.Conflict {
	case rest.ConflictForeignKey:
		return "A related record is missing or still referenced"
	case rest.ConflictUnique:
		return "A record with these details already exists"
	default:
		return "The change conflicts with the current state"
	}
}
