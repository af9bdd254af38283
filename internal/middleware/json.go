package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"pedlop-auth/internal/model"
	"pedlop-auth/pkg/apierror"
)

// writeFailure renders an error through the envelope. Errors that are not
// APIErrors or known sentinels are reported as a generic 500.
func writeFailure(w http.ResponseWriter, err error) {
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
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	_ = json.NewEncoder(w).Encode(resp)
}
