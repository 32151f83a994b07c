package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	permanent := errors.New("permanent")
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("got %v, want permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: errors.New("always")}
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestGetBytes_Statuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   bool
		retryable bool
	}{
		{"ok", http.StatusOK, false, false},
		{"not found", http.StatusNotFound, true, false},
		{"server error", http.StatusInternalServerError, true, true},
		{"rate limited", http.StatusTooManyRequests, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("body"))
			}))
			defer srv.Close()

			req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
			data, err := GetBytes(srv.Client(), req)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if got := errors.As(err, new(*RetryableError)); got != tt.retryable {
					t.Errorf("retryable = %v, want %v", got, tt.retryable)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetBytes error: %v", err)
			}
			if string(data) != "body" {
				t.Errorf("body = %q", data)
			}
		})
	}
}

func TestGetBytes_NetworkErrorRetryable(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	srv.Close() // refuse connections

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := GetBytes(http.DefaultClient, req)
	if err == nil {
		t.Fatal("expected network error")
	}
	if !errors.As(err, new(*RetryableError)) {
		t.Error("network errors should be retryable")
	}
	if hits.Load() != 0 {
		t.Error("closed server should not have been reached")
	}
}
