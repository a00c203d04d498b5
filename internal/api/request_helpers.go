package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/edu-api/internal/domain"
)

// queryInt reads an integer query parameter, returning def when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
	}
	return v, nil
}

// queryList reads a repeatable query parameter. Each value is kept whole
// and trimmed; blanks are dropped.
func queryList(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getPathParam extracts a required path parameter.
func getPathParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(chi.URLParam(r, name))
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	return v, nil
}

// ageParam reads the age query parameter; it is required.
func ageParam(r *http.Request) (int, error) {
	if r.URL.Query().Get("age") == "" {
		return 0, fmt.Errorf("%w: age is required", domain.ErrValidation)
	}
	return queryInt(r, "age", 0)
}
