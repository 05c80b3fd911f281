// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/irs-forms/pkg/types"
)

func TestNewClient_DefaultTimeout(t *testing.T) {
	c := NewClient(types.HTTPConfig{})
	assert.Equal(t, DefaultTimeout, c.HTTP.Timeout)

	c = NewClient(types.HTTPConfig{Timeout: 3 * time.Second, UserAgent: "ua", MaxRetries: 2})
	assert.Equal(t, 3*time.Second, c.HTTP.Timeout)
	assert.Equal(t, "ua", c.UserAgent)
	assert.Equal(t, 2, c.MaxRetries)
}

func TestFetch_ReturnsBody(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{UserAgent: "irs-forms-test/0.1"})
	body, err := c.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "<html>ok</html>", string(body))
	assert.Equal(t, "irs-forms-test/0.1", gotUA)
}

func TestFetch_NonSuccessStatusIsFetchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{})
	_, err := c.Fetch(context.Background(), ts.URL)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, ts.URL, fe.URL)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetch_TimeoutIsFetchError(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := NewClient(types.HTTPConfig{Timeout: 50 * time.Millisecond})
	_, err := c.Fetch(context.Background(), ts.URL)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.StatusCode)
	assert.Error(t, fe.Err)
}

func TestFetch_ConnectionFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient(types.HTTPConfig{})
	_, err := c.Fetch(context.Background(), url)

	var fe *FetchError
	assert.True(t, errors.As(err, &fe))
}

func TestFetch_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("late"))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(types.HTTPConfig{})
	_, err := c.Fetch(ctx, ts.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetch_NoRetryByDefault(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{})
	_, err := c.Fetch(context.Background(), ts.URL)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusTooManyRequests, fe.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_RetriesWhenConfigured(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("pdf"))
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{MaxRetries: 2})
	body, err := c.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(body))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
