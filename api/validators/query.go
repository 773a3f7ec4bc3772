package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/google/uuid"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Validation("query parameter must be numeric", map[string]string{key: "must be numeric"})
	}
	if value < min || value > max {
		return 0, pkgerrors.Validation("query parameter out of range", map[string]string{key: "out of range"})
	}
	return value, nil
}

// ParseQueryInt64Ptr returns nil when the parameter is absent.
func ParseQueryInt64Ptr(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pkgerrors.Validation("query parameter must be numeric", map[string]string{key: "must be numeric"})
	}
	if value < 0 {
		return nil, pkgerrors.Validation("query parameter out of range", map[string]string{key: "must be at least 0"})
	}
	return &value, nil
}

// ParseQueryUUIDs collects every occurrence of a repeatable id parameter. Comma separated values are split.
func ParseQueryUUIDs(r *http.Request, key string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, pkgerrors.Validation("query parameter must be an id", map[string]string{key: "must be a valid id"})
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
