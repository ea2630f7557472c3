package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFetcher(t *testing.T, cfg Config) *Fetcher {
	t.Helper()
	f, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	return f
}

func TestFetchLocalFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "carmelo_anthony.html")
	require.NoError(t, os.WriteFile(path, []byte("<html>melo</html>"), 0o600))

	f := newTestFetcher(t, Config{})
	body, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "<html>melo</html>", string(body))
}

func TestFetchLocatorErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := newTestFetcher(t, Config{})

	tests := []struct {
		name    string
		locator string
		want    error
	}{
		{name: "blank", locator: "   ", want: ErrInvalidLocator},
		{name: "missing file", locator: filepath.Join(dir, "nope.html"), want: ErrNotFound},
		{name: "directory", locator: dir, want: ErrInvalidLocator},
		{name: "url without host", locator: "https:///players/a/anthoca01.html", want: ErrInvalidLocator},
		{name: "odd scheme", locator: "httpx://example.com/", want: ErrInvalidLocator},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := f.Fetch(context.Background(), tc.locator)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFetchRemoteCachesByURL(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprintf(w, "<html>%s</html>", r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, Config{MinInterval: time.Millisecond})
	ctx := context.Background()

	body, err := f.Fetch(ctx, srv.URL+"/players/a/anthoca01.html")
	require.NoError(t, err)
	require.Equal(t, "<html>/players/a/anthoca01.html</html>", string(body))
	require.True(t, f.Cached(srv.URL+"/players/a/anthoca01.html"))

	again, err := f.Fetch(ctx, srv.URL+"/players/a/anthoca01.html")
	require.NoError(t, err)
	require.Equal(t, body, again)
	require.EqualValues(t, 1, hits.Load())

	_, err = f.Fetch(ctx, srv.URL+"/players/j/jamesle01.html")
	require.NoError(t, err)
	require.EqualValues(t, 2, hits.Load())
}

func TestFetchCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, Config{CacheSize: 2, MinInterval: time.Millisecond})
	ctx := context.Background()
	for _, p := range []string{"/a", "/b", "/a", "/c"} {
		_, err := f.Fetch(ctx, srv.URL+p)
		require.NoError(t, err)
	}
	require.EqualValues(t, 3, hits.Load())
	assert.True(t, f.Cached(srv.URL+"/a"))
	assert.False(t, f.Cached(srv.URL+"/b"))
	assert.True(t, f.Cached(srv.URL+"/c"))
}

func TestFetchRemoteStatusErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			http.Error(w, "nope", http.StatusForbidden)
		}
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, Config{MinInterval: time.Millisecond, MaxRetries: 2, BackoffInitial: time.Millisecond})

	_, err := f.Fetch(context.Background(), srv.URL+"/missing")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, http.StatusNotFound, remote.StatusCode)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.Fetch(context.Background(), srv.URL+"/forbidden")
	require.ErrorAs(t, err, &remote)
	require.Equal(t, http.StatusForbidden, remote.StatusCode)
	require.NotErrorIs(t, err, ErrNotFound)
	require.False(t, f.Cached(srv.URL+"/forbidden"))
}

func TestFetchRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, Config{
		MinInterval:    time.Millisecond,
		MaxRetries:     3,
		BackoffInitial: time.Millisecond,
		BackoffMax:     5 * time.Millisecond,
	})
	body, err := f.Fetch(context.Background(), srv.URL+"/flaky")
	require.NoError(t, err)
	require.Equal(t, "recovered", string(body))
	require.EqualValues(t, 3, hits.Load())
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, Config{MinInterval: time.Millisecond, MaxRetries: 1, BackoffInitial: time.Millisecond})
	_, err := f.Fetch(context.Background(), srv.URL+"/busy")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Equal(t, http.StatusTooManyRequests, remote.StatusCode)
	require.EqualValues(t, 2, hits.Load())
}

func TestFetchSpacesRequestStartsPerHost(t *testing.T) {
	t.Parallel()

	const interval = 60 * time.Millisecond
	var (
		mu     sync.Mutex
		starts []time.Time
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, Config{MinInterval: interval})
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.Fetch(context.Background(), fmt.Sprintf("%s/page/%d", srv.URL, i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, starts, 4)
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	for i := 1; i < len(starts); i++ {
		// A little slack for scheduling between the limiter and the handler.
		require.GreaterOrEqual(t, starts[i].Sub(starts[i-1]), interval-15*time.Millisecond)
	}
}

func TestFetchCollapsesConcurrentMisses(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte("shared"))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, Config{MinInterval: time.Millisecond})
	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := f.Fetch(context.Background(), srv.URL+"/same")
			assert.NoError(t, err)
			assert.Equal(t, "shared", string(body))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	require.EqualValues(t, 1, hits.Load())
}

func TestFetchCancelledCallerLeavesSharedFetchRunning(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("kept"))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, Config{MinInterval: time.Millisecond})
	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.Fetch(first, srv.URL+"/p")
		firstErr <- err
	}()
	time.Sleep(50 * time.Millisecond)

	second := make(chan []byte, 1)
	go func() {
		body, err := f.Fetch(context.Background(), srv.URL+"/p")
		assert.NoError(t, err)
		second <- body
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	require.ErrorIs(t, <-firstErr, context.Canceled)
	require.Equal(t, "kept", string(<-second))
	require.EqualValues(t, 1, hits.Load())
	require.True(t, f.Cached(srv.URL+"/p"))
}

func TestFetchHonorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte("late"))
	}))
	t.Cleanup(srv.Close)

	f := newTestFetcher(t, Config{MinInterval: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := f.Fetch(ctx, srv.URL+"/slow")
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRetryPolicy(t *testing.T) {
	t.Parallel()

	p := newRetryPolicy(2, 10*time.Millisecond, 40*time.Millisecond)
	assert.False(t, p.ShouldRetry(nil, 0))
	assert.True(t, p.ShouldRetry(&RemoteError{StatusCode: http.StatusBadGateway}, 0))
	assert.True(t, p.ShouldRetry(&RemoteError{StatusCode: http.StatusTooManyRequests}, 1))
	assert.False(t, p.ShouldRetry(&RemoteError{StatusCode: http.StatusBadGateway}, 2))
	assert.False(t, p.ShouldRetry(&RemoteError{StatusCode: http.StatusNotFound}, 0))
	assert.False(t, p.ShouldRetry(fmt.Errorf("wrapped: %w", context.Canceled), 0))
	assert.False(t, p.ShouldRetry(ErrInvalidLocator, 0))
	assert.False(t, p.ShouldRetry(errors.New("forbidden domain"), 0))
	assert.True(t, p.ShouldRetry(timeoutError{}, 0))

	for attempt := range 5 {
		d := p.Backoff(attempt)
		assert.GreaterOrEqual(t, d, 5*time.Millisecond)
		assert.LessOrEqual(t, d, 40*time.Millisecond)
	}
}

func TestRemoteErrorMessage(t *testing.T) {
	t.Parallel()

	err := &RemoteError{URL: "https://www.basketball-reference.com/x", StatusCode: http.StatusBadGateway}
	require.Equal(t, "fetch https://www.basketball-reference.com/x: unexpected status 502 Bad Gateway", err.Error())
	require.True(t, err.Temporary())
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
