package http

import (
	"encoding/json"
	"errors"
	"net/http"

	oaerrors "github.com/go-openapi/errors"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/bon"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/inventory"
	"github.com/kahvecikaan/stockroom/internal/listing"
	"github.com/kahvecikaan/stockroom/internal/service"
)

// writeError converts err into a JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, logger hclog.Logger, err error) {
	var verr *bon.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, BonValidationError{
			Kind:    string(verr.Kind),
			Title:   verr.Kind.Title(),
			Field:   verr.Field,
			Message: verr.Message,
		})
		return
	}

	apiErr := toAPIError(err)
	if apiErr.Code() >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "url", r.URL.Path, "error", err)
	} else {
		logger.Debug("Request rejected", "method", r.Method, "url", r.URL.Path, "code", apiErr.Code(), "error", err)
	}
	oaerrors.ServeError(w, r, apiErr)
}

func toAPIError(err error) oaerrors.Error {
	var (
		statusErr    *inventory.StatusError
		transportErr *inventory.TransportError
		decodeErr    *inventory.DecodeError
		fallbackErr  *bon.FallbackError
	)

	switch {
	case errors.Is(err, inventory.ErrNoSession):
		return oaerrors.New(http.StatusUnauthorized, "no session token, please log in")
	case errors.Is(err, inventory.ErrUnauthorized):
		return oaerrors.New(http.StatusUnauthorized, "session expired, please log in again")
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, service.ErrDraftNotFound):
		return oaerrors.NotFound(err.Error())
	case errors.Is(err, domain.ErrInvalidProduct):
		return oaerrors.New(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, bon.ErrOutOfStock),
		errors.Is(err, bon.ErrAtMaximum),
		errors.Is(err, bon.ErrAtMinimum),
		errors.Is(err, bon.ErrNotSelected),
		errors.Is(err, bon.ErrInvalidQuantity):
		return oaerrors.New(http.StatusConflict, err.Error())
	case errors.Is(err, listing.ErrPageOutOfRange):
		return oaerrors.New(http.StatusBadRequest, err.Error())
	case errors.As(err, &fallbackErr):
		return oaerrors.New(http.StatusInternalServerError, "withdrawal could not be saved, please try again")
	case errors.As(err, &statusErr):
		return oaerrors.New(http.StatusBadGateway, "inventory API error: %s", statusErr.Message)
	case errors.As(err, &transportErr):
		return oaerrors.New(http.StatusBadGateway, "inventory API unreachable")
	case errors.As(err, &decodeErr):
		return oaerrors.New(http.StatusBadGateway, "inventory API returned an unexpected response")
	}

	var apiErr oaerrors.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return oaerrors.New(http.StatusInternalServerError, "internal server error")
}

func badRequest(format string, args ...interface{}) error {
	return oaerrors.New(http.StatusBadRequest, format, args...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// notFoundHandler and methodNotAllowedHandler keep mux's own responses in the
// same JSON shape as every other error.
func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oaerrors.ServeError(w, r, oaerrors.NotFound("path %s was not found", r.URL.Path))
	})
}

func methodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oaerrors.ServeError(w, r, oaerrors.New(http.StatusMethodNotAllowed, "method %s not allowed", r.Method))
	})
}
