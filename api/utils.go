package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/htol/libapi/logger"
	"github.com/htol/libapi/middleware"
	"github.com/htol/libapi/validator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

const (
	titleValidation = "Validation failed"
	titleBadRequest = "Bad request"
	titleNotFound   = "Not found"
	titleNotAllowed = "Method not allowed"
	titleTooLarge   = "Request entity too large"
	titleInternal   = "Internal server error"
)

var (
	errMalformedBody = errors.New("Request body must be valid JSON")
	errNotAnObject   = errors.New("Request body must be a JSON object")
	errBodyTooLarge  = errors.New("Request body must not exceed 1 MiB")
)

// errorResponse is the body of every non-2xx answer
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodePayload reads the request body as a JSON object. An empty body and a
// JSON null both decode to a nil payload.
func decodePayload(w http.ResponseWriter, r *http.Request) (validator.Payload, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, errMalformedBody
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, errMalformedBody
	}
	switch obj := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return validator.Payload(obj), nil
	default:
		return nil, errNotAnObject
	}
}

// respondJSON writes v with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// respondWithError logs an error and sends an HTTP error response as JSON
func respondWithError(w http.ResponseWriter, r *http.Request, message string, err error, statusCode int) {
	title := titleInternal
	switch statusCode {
	case http.StatusNotFound:
		title = titleNotFound
	case http.StatusMethodNotAllowed:
		title = titleNotAllowed
	case http.StatusRequestEntityTooLarge:
		title = titleTooLarge
	case http.StatusServiceUnavailable:
		title = http.StatusText(statusCode)
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Error(message, "error", err, "status", statusCode, "request_id", middleware.RequestIDFrom(r.Context()))
	} else {
		logger.Debug(message, "error", err, "status", statusCode, "request_id", middleware.RequestIDFrom(r.Context()))
	}
	respondJSON(w, statusCode, errorResponse{Error: title, Message: message})
}

// respondWithValidationError sends a 400 with the rejected input explained
func respondWithValidationError(w http.ResponseWriter, r *http.Request, title, message string) {
	logger.Warn("Validation error", "message", message, "path", r.URL.Path, "request_id", middleware.RequestIDFrom(r.Context()))
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: title, Message: message})
}

// respondWithDecodeError answers a body decodePayload refused
func respondWithDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errBodyTooLarge) {
		respondWithError(w, r, err.Error(), err, http.StatusRequestEntityTooLarge)
		return
	}
	respondWithValidationError(w, r, titleBadRequest, err.Error())
}
