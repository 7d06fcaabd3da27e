package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", name)
	}
	return parsed, nil
}

func parseTimeField(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp, want RFC 3339")
	}
	return &parsed, nil
}

func parseDurationField(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid duration")
	}
	return parsed, nil
}
