package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", timeout, logger.Nop())
}

func TestClient_URL(t *testing.T) {
	c := NewClient("http://backend/api", time.Second, logger.Nop())
	assert.Equal(t, "http://backend/api/products", c.URL("/products"))
	assert.Equal(t, "http://backend/api/products", c.URL("products"))
	assert.Equal(t, "https://other/x", c.URL("https://other/x"))

	c = NewClient("http://backend/api/", time.Second, logger.Nop())
	assert.Equal(t, "http://backend/api/carts/items", c.URL("/carts/items"))
}

func TestClient_GetJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "shoes", r.URL.Query().Get("categorySlug"))
		assert.Equal(t, "sid-1", r.Header.Get("X-Session-Id"))
		assert.Empty(t, r.Header.Get("X-Internal"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"name":"Shoe"}`))
	}, time.Second)

	h := http.Header{}
	h.Set("X-Session-Id", "sid-1")
	h.Set("X-Internal", "secret")
	ctx := WithHeaders(context.Background(), h)

	var out struct{ Name string }
	require.NoError(t, c.Get(ctx, "/products", url.Values{"categorySlug": {"shoes"}}, &out))
	assert.Equal(t, "Shoe", out.Name)
}

func TestClient_PostBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"echo": in["code"], "method": r.Method})
	}, time.Second)

	var out map[string]string
	require.NoError(t, c.Post(context.Background(), "/coupons/apply", map[string]string{"code": "SAVE10"}, &out))
	assert.Equal(t, map[string]string{"echo": "SAVE10", "method": "POST"}, out)

	out = nil
	require.NoError(t, c.Delete(context.Background(), "/carts/items", map[string]string{"code": "X"}, &out))
	assert.Equal(t, "DELETE", out["method"])
}

func TestClient_GetSendsNoBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		assert.Empty(t, data)
		w.WriteHeader(http.StatusNoContent)
	}, time.Second)

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/x", nil, map[string]string{"a": "b"}, nil))
}

func TestClient_NonJSONLeavesOutUntouched(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	}, time.Second)

	out := map[string]string{"keep": "me"}
	require.NoError(t, c.Get(context.Background(), "/health", nil, &out))
	assert.Equal(t, map[string]string{"keep": "me"}, out)
}

func TestClient_ErrorJSONMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"statusCode":400,"message":"Coupon has expired"}`))
	}, time.Second)

	err := c.Post(context.Background(), "/coupons/apply", map[string]string{}, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Bad Request", apiErr.StatusText)
	assert.Equal(t, "Coupon has expired", apiErr.Message)
	assert.Equal(t, "Coupon has expired", apiErr.UserMessage())
	assert.Equal(t, float64(400), apiErr.Data.(map[string]interface{})["statusCode"])
	assert.Equal(t, 400, StatusOf(err))
}

func TestClient_ErrorMessageList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":["quantity must be positive","other"]}`))
	}, time.Second)

	err := c.Patch(context.Background(), "/carts/items", map[string]int{"quantity": -1}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "quantity must be positive", apiErr.Message)
}

func TestClient_ErrorTextBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}, time.Second)

	err := c.Get(context.Background(), "/products/x", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "HTTP error! status: 502", apiErr.Message)
	assert.Equal(t, "upstream exploded\n", apiErr.Data)
	assert.False(t, IsNotFound(err))
}

func TestClient_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, time.Second)

	assert.True(t, IsNotFound(c.Get(context.Background(), "/products/missing", nil, nil)))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 20*time.Millisecond)
	defer close(release)

	err := c.Get(context.Background(), "/slow", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusRequestTimeout, apiErr.Status)
	assert.Equal(t, "Request Timeout", apiErr.StatusText)
	assert.Equal(t, "Request timeout after 20ms", apiErr.Message)
}

func TestClient_CallerCancelIsNotTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/slow", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSessionID(t *testing.T) {
	assert.Equal(t, "", SessionID(context.Background()))

	h := http.Header{}
	h.Set("X-Session-Id", "guest-1")
	assert.Equal(t, "guest-1", SessionID(WithHeaders(context.Background(), h)))
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, "", Identity(context.Background()))

	guest := http.Header{}
	guest.Set("X-Session-Id", "guest-1")
	assert.Equal(t, "", Identity(WithHeaders(context.Background(), guest)))

	alice := guest.Clone()
	alice.Set("Authorization", "Bearer alice")
	bob := guest.Clone()
	bob.Set("Authorization", "Bearer bob")

	a := Identity(WithHeaders(context.Background(), alice))
	assert.Len(t, a, 32)
	assert.Equal(t, a, Identity(WithHeaders(context.Background(), alice.Clone())))
	assert.NotEqual(t, a, Identity(WithHeaders(context.Background(), bob)))
	assert.NotContains(t, a, "alice")

	withCookie := alice.Clone()
	withCookie.Set("Cookie", "token=x")
	assert.NotEqual(t, a, Identity(WithHeaders(context.Background(), withCookie)))
}
