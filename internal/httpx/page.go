package httpx

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-crm-records.git/internal/crm"
)

// PageParams reads page/limit with the 1/10 defaults. Non-positive values
// are passed through so the store rejects them before any query runs.
func PageParams(r *http.Request) (page, limit int, err error) {
	if page, err = intQuery(r, "page", 1); err != nil {
		return
	}
	limit, err = intQuery(r, "limit", 10)
	return
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", crm.ErrInvalidArgument, key)
	}
	return i, nil
}
