package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"digilib-backend/internal/adapter/middleware"
	"digilib-backend/internal/domain/book"
	"digilib-backend/internal/domain/borrower"
	"digilib-backend/internal/domain/loanrequest"
	usecase "digilib-backend/internal/usecase/loanrequest"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// parseDate reads an optional YYYY-MM-DD value as UTC midnight.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func callerFrom(c echo.Context) (usecase.Caller, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return usecase.Caller{}, false
	}
	return usecase.Caller{UserID: id.UserID, Admin: id.Admin()}, true
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}

// Map domain errors → HTTP codes
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loanrequest.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, borrower.ErrUnknownBorrower):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loanrequest.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: loanrequest.ErrNotFound.Error()})
	case errors.Is(err, book.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: book.ErrNotFound.Error()})
	case errors.Is(err, loanrequest.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: loanrequest.ErrInvalidTransition.Error()})
	case errors.Is(err, loanrequest.ErrBookUnavailable):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: loanrequest.ErrBookUnavailable.Error()})
	default:
		log.Printf("http: %s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
