package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/go-playground/validator/v10"
)

// maxRequestBodySize caps JSON request bodies. Batch content inserts carry
// up to a thousand rows, so the cap is generous.
const maxRequestBodySize = 5 << 20 // 5 MB

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into dst, rejecting unknown payloads
// that are not syntactically valid JSON or exceed the size cap.
func decodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return domain.Invalid("", "Request body too large")
		}
		if errors.Is(err, io.EOF) {
			return domain.Invalid("", "Request body is required")
		}
		return domain.Invalid("", "Invalid JSON in request body")
	}
	return nil
}

// validateStruct runs validator tags over req and converts failures into a
// field-keyed domain.ValidationError.
func validateStruct(v *validator.Validate, op string, req interface{}) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid(op, "Invalid request")
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = validationMessage(fe)
	}
	return &domain.ValidationError{Op: op, Fields: fields}
}

// validationMessage renders a human-readable message for a single failed tag.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Too short (minimum " + fe.Param() + ")"
	case "max":
		return "Too long (maximum " + fe.Param() + ")"
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}
