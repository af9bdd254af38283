package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pedlop-auth/internal/model"
	"pedlop-auth/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, successMessage string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.Response{
		Data:           data,
		SuccessMessage: successMessage,
	})
}

func writeError(w http.ResponseWriter, err error) {
	resp := model.ErrorResponse{
		Code:    http.StatusInternalServerError,
		Reason:  "Internal error",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		resp.Code = apiErr.Code
		resp.Reason = apiErr.Reason
		resp.Message = apiErr.Message
	case errors.Is(err, model.ErrInvalidCredentials):
		resp.Code = http.StatusUnauthorized
		resp.Reason = "Invalid credentials"
		resp.Message = "Could not validate credentials - invalid token, cookie or permission"
	case errors.Is(err, model.ErrUserNotFound):
		resp.Code = http.StatusNotFound
		resp.Reason = "User not found"
		resp.Message = "No user matches the given identity"
	default:
		// Surface unclassified errors in the logs; the client gets the
		// generic envelope.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	_ = json.NewEncoder(w).Encode(resp)
}
