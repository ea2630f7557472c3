package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSanitizeHost(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"standard https", "https://www.Basketball-Reference.com/players/", "www.basketball-reference.com"},
		{"no scheme", "basketball-reference.com/teams/CLE/", "basketball-reference.com"},
		{"host with port", "127.0.0.1:8080", "127.0.0.1"},
		{"invalid url", "http://%", "unknown"},
		{"empty string", "", "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, SanitizeHost(tc.input))
		})
	}
}

func TestInitIsIdempotent(t *testing.T) {
	Init()
	first := fetchTotal
	Init()
	require.Same(t, first, fetchTotal)
	require.NotNil(t, parseTotal)
	require.NotNil(t, pacingDelaySeconds)
}

func TestObservers(t *testing.T) {
	Init()

	before := testutil.ToFloat64(fetchTotal.WithLabelValues(SourceFile, "ok"))
	beforeBytes := testutil.ToFloat64(fetchBytesTotal.WithLabelValues(SourceFile))
	ObserveFetch(SourceFile, "ok", 128)
	require.InDelta(t, before+1, testutil.ToFloat64(fetchTotal.WithLabelValues(SourceFile, "ok")), 1e-9)
	require.InDelta(t, beforeBytes+128, testutil.ToFloat64(fetchBytesTotal.WithLabelValues(SourceFile)), 1e-9)

	hits := testutil.ToFloat64(fetchCacheHitsTotal)
	ObserveCacheHit()
	require.InDelta(t, hits+1, testutil.ToFloat64(fetchCacheHitsTotal), 1e-9)

	retries := testutil.ToFloat64(fetchRetriesTotal)
	ObserveRetry()
	require.InDelta(t, retries+1, testutil.ToFloat64(fetchRetriesTotal), 1e-9)

	failed := testutil.ToFloat64(parseTotal.WithLabelValues("player", "error"))
	ObserveParse("player", errors.New("boom"))
	require.InDelta(t, failed+1, testutil.ToFloat64(parseTotal.WithLabelValues("player", "error")), 1e-9)

	inflight := testutil.ToFloat64(bulkInflight)
	IncBulkInflight()
	require.InDelta(t, inflight+1, testutil.ToFloat64(bulkInflight), 1e-9)
	DecBulkInflight()
	require.InDelta(t, inflight, testutil.ToFloat64(bulkInflight), 1e-9)

	ObservePacingDelay("example.com", 120*time.Millisecond)
	require.Positive(t, testutil.CollectAndCount(pacingDelaySeconds))
}

func FuzzSanitizeHost(f *testing.F) {
	for _, tc := range []string{"https://www.basketball-reference.com", "ftp://example.com", ""} {
		f.Add(tc)
	}
	f.Fuzz(func(t *testing.T, orig string) {
		if SanitizeHost(orig) == "" {
			t.Errorf("SanitizeHost(%q) returned an empty string", orig)
		}
	})
}
