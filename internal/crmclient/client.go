// Package crmclient holds the typed HTTP clients the gateway and the
// split-mode guard use to call the two record services.
package crmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ariefcatur/go-crm-records.git/internal/crm"
	"github.com/ariefcatur/go-crm-records.git/internal/httpx"
)

func defaultHTTP() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

func doJSON(ctx context.Context, hc *http.Client, method, url string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", crm.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError rebuilds the failure category from the wire code so callers
// can errors.Is against the crm sentinels across the process boundary.
func decodeError(resp *http.Response) error {
	var body httpx.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if sentinel := httpx.SentinelFor(body.Code); sentinel != nil {
			return fmt.Errorf("%w: %s", sentinel, body.Error)
		}
	}
	return fmt.Errorf("%w: unexpected status %d", crm.ErrStoreUnavailable, resp.StatusCode)
}
