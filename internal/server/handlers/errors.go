// Provides helper functions for mapping and writing error responses.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arborcms/arbor/internal/server/dto"
	"github.com/arborcms/arbor/internal/storage"
)

// storageError maps a storage error to an APIError. The resource name is
// used for not-found messages; validation and conflict errors keep the
// storage message since it names the offending field or value.
func storageError(err error, resource string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return dto.NotFound(resource).Wrap(err)
	case errors.Is(err, storage.ErrInvalidArgument):
		return dto.BadRequest(err.Error())
	case errors.Is(err, storage.ErrConflict):
		return dto.Conflict(err.Error())
	case errors.Is(err, storage.ErrDependency):
		return dto.StorageFailure(err)
	}
	return dto.InternalWithError("Operation failed", err)
}

// writeErrorResponse writes an APIError as a JSON response.
// Use this in raw http.HandlerFunc handlers that don't use server.Wrap.
func writeErrorResponse(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorCode := dto.ErrorCodeInternal
	message := "internal error"
	var details map[string]any

	var ewsErr dto.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		errorCode = ewsErr.Code()
		message = ewsErr.Error()
		details = ewsErr.Details()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := dto.ErrorResponse{
		Error: dto.ErrorDetails{
			Code:    errorCode,
			Message: message,
		},
		Details: details,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
