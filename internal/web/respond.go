package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xtding233/spinwheel/internal/config"
	"github.com/xtding233/spinwheel/internal/log"
	"github.com/xtding233/spinwheel/internal/wheel"
)

var errBadRequest = errors.New("bad request")

type errorResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, wheel.ErrInvalidWeight),
		errors.Is(err, wheel.ErrUnknownEasing),
		errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, wheel.ErrNoSuchOption), errors.Is(err, config.ErrUnknownPreset):
		return http.StatusNotFound
	case errors.Is(err, wheel.ErrEmptyWheel):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(r.Context(), "request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errorResp{Error: err.Error()})
}

func decode[T any](body io.Reader) (T, error) {
	var v T
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		return v, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return v, nil
}

// decodeOptional is decode that accepts an empty body as the zero value.
func decodeOptional[T any](body io.Reader) (T, error) {
	var v T
	err := json.NewDecoder(body).Decode(&v)
	if err != nil && !errors.Is(err, io.EOF) {
		return v, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return v, nil
}

func pathIndex(r *http.Request) (int, error) {
	s := chi.URLParam(r, "index")
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid index %q", errBadRequest, s)
	}
	return i, nil
}

// queryFloat reads a float parameter; ok is false when it is absent.
func queryFloat(r *http.Request, key string) (float64, bool, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: invalid %s", errBadRequest, key)
	}
	return v, true, nil
}

func queryInt(r *http.Request, key string) (*int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s", errBadRequest, key)
	}
	return &v, nil
}
