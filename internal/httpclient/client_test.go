package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_NotFoundUsesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	err := New(srv.URL).Get(context.Background(), "/products/missing", nil, nil)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "not found", se.Error())
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.JSONEq(t, `{"error":"not found"}`, string(se.Body))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestDo_MessageFieldAndGenericFallback(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "message field", body: `{"message":"price must be positive"}`, want: "price must be positive"},
		{name: "error wins over message", body: `{"error":"bad","message":"ignored"}`, want: "bad"},
		{name: "plain text", body: `upstream exploded`, want: "HTTP 502"},
		{name: "empty", body: ``, want: "HTTP 502"},
		{name: "non-string error", body: `{"error":{"code":1}}`, want: "HTTP 502"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			err := New(srv.URL).Get(context.Background(), "/x", nil, nil)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
			assert.Equal(t, http.StatusBadGateway, StatusCode(err))
		})
	}
}

func TestDo_DecodesSuccessAndSendsJSONBody(t *testing.T) {
	var gotContentType, gotMethod string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"s1","total":3000}`))
	}))
	defer srv.Close()

	var out struct {
		ID    string `json:"id"`
		Total int    `json:"total"`
	}
	err := New(srv.URL+"/").Post(context.Background(), "sales", map[string]any{"a": 1}, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, float64(1), gotBody["a"])
	assert.Equal(t, "s1", out.ID)
	assert.Equal(t, 3000, out.Total)
}

func TestDo_NoContentTypeWithoutBody(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var out map[string]any
	require.NoError(t, New(srv.URL).Delete(context.Background(), "/products/1", &out))
	assert.Empty(t, gotContentType)
	assert.Nil(t, out)
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	err := New(addr).Get(context.Background(), "/products", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Contains(t, err.Error(), "fetch error: ")
	assert.Zero(t, StatusCode(err))
}

func TestDo_TimeoutIsNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := New(srv.URL, WithTimeout(50*time.Millisecond))
	err := client.Get(context.Background(), "/slow", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDo_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := New(srv.URL).Get(context.Background(), "/x", nil, &out)
	require.Error(t, err)
	assert.False(t, IsNetwork(err))
	assert.Zero(t, StatusCode(err))
}

func TestBreakerOpensOnServerFaultsOnly(t *testing.T) {
	var status, calls atomic.Int32
	status.Store(http.StatusBadRequest)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	client := New(srv.URL, WithBreaker("test", 2, time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := client.Get(ctx, "/x", nil, nil)
		assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	}

	status.Store(http.StatusInternalServerError)
	for i := 0; i < 2; i++ {
		err := client.Get(ctx, "/x", nil, nil)
		assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	}

	before := calls.Load()
	err := client.Get(ctx, "/x", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, before, calls.Load(), "open breaker must not reach the server")
}
