package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/mailbuilder/pkg/document"
	"github.com/dmitrymomot/mailbuilder/pkg/editor"
	"github.com/dmitrymomot/mailbuilder/pkg/export"
	"github.com/dmitrymomot/mailbuilder/pkg/importer"
	"github.com/dmitrymomot/mailbuilder/pkg/logger"
	"github.com/dmitrymomot/mailbuilder/pkg/provider"
	"github.com/dmitrymomot/mailbuilder/pkg/validator"
)

// maxBodyBytes caps JSON request bodies other than imports.
const maxBodyBytes = 1 << 20

// Response is the JSON envelope of every API answer.
type Response struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// Applied is the answer of store commands that may be no-ops.
type Applied struct {
	Applied bool `json:"applied"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Data: data})
}

func (s *Server) created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Data: data})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed", logger.Path(r.URL.Path), logger.Error(err))
	}
	writeJSON(w, status, Response{Error: detail})
}

// classify maps an error to an HTTP status and the envelope error.
func classify(err error) (int, *ErrorDetail) {
	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway, &ErrorDetail{
			Code:    "provider_error",
			Message: apiErr.Error(),
			Details: apiErrorDetails(apiErr),
		}
	}

	switch {
	case errors.Is(err, importer.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, &ErrorDetail{Code: "payload_too_large", Message: importer.ErrPayloadTooLarge.Error()}
	case errors.Is(err, importer.ErrInvalidTemplate):
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "invalid_template",
			Message: importer.ErrInvalidTemplate.Error(),
			Details: validationDetails(err),
		}
	case errors.Is(err, provider.ErrInvalidParams):
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "invalid_params",
			Message: "invalid send parameters",
			Details: validationDetails(err),
		}
	case validator.IsValidationError(err):
		return http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "validation_error",
			Message: "validation failed",
			Details: validationDetails(err),
		}
	case errors.Is(err, document.ErrUnknownType),
		errors.Is(err, document.ErrInvalidContent),
		errors.Is(err, document.ErrInvalidStyles),
		errors.Is(err, document.ErrContentMismatch):
		return http.StatusUnprocessableEntity, &ErrorDetail{Code: "invalid_element", Message: err.Error()}
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest, &ErrorDetail{Code: "bad_request", Message: err.Error()}
	case errors.Is(err, editor.ErrTemplateNotFound),
		errors.Is(err, editor.ErrElementNotFound),
		errors.Is(err, editor.ErrNoCurrent),
		errors.Is(err, provider.ErrProviderNotFound),
		errors.Is(err, provider.ErrTemplateNotFound),
		errors.Is(err, export.ErrFileNotFound):
		return http.StatusNotFound, &ErrorDetail{Code: "not_found", Message: err.Error()}
	case errors.Is(err, ErrExportDisabled):
		return http.StatusNotImplemented, &ErrorDetail{Code: "not_implemented", Message: err.Error()}
	case errors.Is(err, provider.ErrTimeout):
		return http.StatusGatewayTimeout, &ErrorDetail{Code: "provider_timeout", Message: err.Error()}
	case errors.Is(err, provider.ErrTransport):
		return http.StatusBadGateway, &ErrorDetail{Code: "provider_unavailable", Message: err.Error()}
	}
	return http.StatusInternalServerError, &ErrorDetail{Code: "internal_error", Message: "internal server error"}
}

func validationDetails(err error) map[string][]string {
	verrs := validator.ExtractValidationErrors(err)
	if len(verrs) == 0 {
		return nil
	}
	details := make(map[string][]string, len(verrs))
	for _, field := range verrs.Fields() {
		details[field] = verrs.Get(field)
	}
	return details
}

func apiErrorDetails(e *provider.APIError) map[string][]string {
	details := map[string][]string{
		"provider": {e.Provider},
		"status":   {strconv.Itoa(e.StatusCode)},
	}
	if e.Code != "" {
		details["code"] = []string{e.Code}
	}
	if e.Body != "" {
		details["body"] = []string{e.Body}
	}
	return details
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}
