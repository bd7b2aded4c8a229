package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParsePathUUID parses a UUID path segment, returning a typed validation
// error on malformed input.
func ParsePathUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]any{"field": field})
	}
	return id, nil
}
