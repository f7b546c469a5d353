package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    bwerrors.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := bwerrors.HTTPStatus(err)
	code := bwerrors.GetCode(err)
	msg := bwerrors.UserMessage(err)
	if code == "" {
		code = bwerrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		if code == bwerrors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return bwerrors.New(bwerrors.ErrCodeInvalidInput, "request body is empty")
		}
		return bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "decode request body")
	}
	if dec.More() {
		return bwerrors.New(bwerrors.ErrCodeInvalidInput, "request body has trailing data")
	}
	return nil
}
