package resource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apiclient"
	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/notify"
)

type item struct {
	Name string `json:"name"`
}

func newLayer(t *testing.T, h http.HandlerFunc) (*Layer, *cache.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := cache.NewMemoryStore()
	client := apiclient.NewClient(srv.URL, time.Second, logger.Nop())
	return NewLayer(client, store, time.Minute, logger.Nop()), store
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestFetch_CachesResponse(t *testing.T) {
	var calls int32
	layer, store := newLayer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/products/featured", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, []item{{Name: "hat"}})
	})

	q := Query{
		Key:    cache.NewKey("products", "featured", "4"),
		Path:   "/products/featured",
		Params: map[string][]string{"limit": {"4"}},
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch[[]item](context.Background(), layer, q)
		require.NoError(t, err)
		assert.Equal(t, []item{{Name: "hat"}}, got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, store.Len())
}

func TestFetch_NoCacheAlwaysCallsRemote(t *testing.T) {
	var calls int32
	layer, store := newLayer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusOK, item{Name: "x"})
	})

	q := Query{Key: cache.NewKey("cart"), Path: "/carts", StaleTime: NoCache}
	for i := 0; i < 2; i++ {
		_, err := Fetch[item](context.Background(), layer, q)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 0, store.Len())
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	var calls int32
	layer, store := newLayer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
			return
		}
		writeJSON(w, http.StatusOK, item{Name: "back"})
	})

	q := Query{Key: cache.NewKey("products", "detail", "hat"), Path: "/products/hat"}

	_, err := Fetch[item](context.Background(), layer, q)
	require.Error(t, err)
	assert.True(t, apiclient.IsNotFound(err))
	assert.Equal(t, 0, store.Len())

	got, err := Fetch[item](context.Background(), layer, q)
	require.NoError(t, err)
	assert.Equal(t, "back", got.Name)
}

func TestFetch_CollapsesConcurrentMisses(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	layer, _ := newLayer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		writeJSON(w, http.StatusOK, item{Name: "shared"})
	})

	q := Query{Key: cache.NewKey("filters"), Path: "/filters"}

	const n = 8
	var wg sync.WaitGroup
	results := make([]item, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Fetch[item](context.Background(), layer, q)
		}(i)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	// Give the other goroutines time to join the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i].Name)
	}
}

func TestMutate_InvalidatesAndNotifies(t *testing.T) {
	layer, store := newLayer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/carts/items", r.URL.Path)
		writeJSON(w, http.StatusCreated, item{Name: "line"})
	})

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, cache.NewKey("cart", "s1"), []byte(`{}`), 0))
	require.NoError(t, store.Set(ctx, cache.NewKey("products", "detail", "hat"), []byte(`{}`), 0))
	require.NoError(t, store.Set(ctx, cache.NewKey("filters"), []byte(`{}`), 0))

	rec := notify.NewRecorder()
	got, err := Mutate[item](ctx, layer, rec, Mutation{
		Method:      http.MethodPost,
		Path:        "/carts/items",
		Body:        map[string]int{"quantity": 1},
		Invalidates: []cache.Key{cache.NewKey("cart"), cache.NewKey("products")},
		Success:     "Added to cart",
		Failure:     "Failed to add to cart",
	})
	require.NoError(t, err)
	assert.Equal(t, "line", got.Name)

	assert.Equal(t, 1, store.Len())
	_, ok, _ := store.Get(ctx, cache.NewKey("filters"))
	assert.True(t, ok)

	assert.Equal(t, []notify.Notification{{Level: notify.LevelSuccess, Message: "Added to cart"}}, rec.Notifications())
}

func TestMutate_FailureKeepsCacheAndReportsMessage(t *testing.T) {
	layer, store := newLayer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Insufficient stock"})
	})

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, cache.NewKey("cart", "s1"), []byte(`{}`), 0))

	rec := notify.NewRecorder()
	_, err := Mutate[item](ctx, layer, rec, Mutation{
		Method:      http.MethodPatch,
		Path:        "/carts/items",
		Invalidates: []cache.Key{cache.NewKey("cart")},
		Failure:     "Failed to update cart",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apiclient.StatusOf(err))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, []notify.Notification{{Level: notify.LevelError, Message: "Insufficient stock"}}, rec.Notifications())
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", ErrorMessage(&apiclient.APIError{Status: 500, Message: "boom"}, "fallback"))
	assert.Equal(t, "fallback", ErrorMessage(&apiclient.APIError{Status: 500}, "fallback"))
	assert.Equal(t, "dial failed", ErrorMessage(errors.New("dial failed"), ""))
}

func TestFetch_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	layer, store := newLayer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		writeJSON(w, http.StatusOK, item{Name: "shared"})
	})
	q := Query{Key: cache.NewKey("products", "detail", "hat"), Path: "/products/hat"}

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := Fetch[item](ctx, layer, q)
		first <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		got item
		err error
	}
	second := make(chan result, 1)
	go func() {
		got, err := Fetch[item](context.Background(), layer, q)
		second <- result{got, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-first:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(release)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Equal(t, "shared", res.got.Name)
	case <-time.After(time.Second):
		t.Fatal("second caller did not get a response")
	}
	assert.Equal(t, 1, store.Len())
}

func TestFetch_InvalidateDuringFetchDropsResponse(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	layer, store := newLayer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			<-release
			writeJSON(w, http.StatusOK, item{Name: "before"})
			return
		}
		writeJSON(w, http.StatusOK, item{Name: "after"})
	})
	q := Query{Key: cache.NewKey("products", "detail", "hat"), Path: "/products/hat"}

	done := make(chan item, 1)
	go func() {
		got, err := Fetch[item](context.Background(), layer, q)
		assert.NoError(t, err)
		done <- got
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)

	layer.Invalidate(context.Background(), cache.NewKey("products"))
	close(release)

	assert.Equal(t, "before", (<-done).Name)
	assert.Equal(t, 0, store.Len())

	got, err := Fetch[item](context.Background(), layer, q)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, 1, store.Len())
}

func TestFetch_InvalidateOtherFamilyKeepsResponse(t *testing.T) {
	release := make(chan struct{})
	layer, store := newLayer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		writeJSON(w, http.StatusOK, item{Name: "hat"})
	})
	q := Query{Key: cache.NewKey("products", "detail", "hat"), Path: "/products/hat"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := Fetch[item](context.Background(), layer, q)
		assert.NoError(t, err)
	}()

	layer.Invalidate(context.Background(), cache.NewKey("cart", "s1"))
	close(release)
	<-done
	assert.Equal(t, 1, store.Len())
}
