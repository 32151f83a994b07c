package httputil

import (
	"fmt"
	"io"
	"net/http"
)

// maxBodySize caps response bodies at 32 MiB; avatars, backgrounds and API
// payloads are all far below this.
const maxBodySize = 32 << 20

// GetBytes performs a GET request with client and returns the response body.
// Network failures, 5xx responses and 429 rate limits come back wrapped in
// [RetryableError] so callers can pass the whole fetch through [Retry];
// other non-2xx statuses fail permanently.
func GetBytes(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RetryableError{Err: fmt.Errorf("GET %s: %s", req.URL, resp.Status)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("GET %s: %s", req.URL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	return data, nil
}
