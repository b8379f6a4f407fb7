package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodjournal/internal/logging"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionFinished_CountsByOutcome(t *testing.T) {
	m := New()

	m.SubmissionFinished(OutcomeSuccess)
	m.SubmissionFinished(OutcomeSuccess)
	m.SubmissionFinished(OutcomeAnalysis)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeAnalysis)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeCreation)))
}

func TestObservePhase(t *testing.T) {
	m := New()

	m.ObservePhase(PhaseCreate, 120*time.Millisecond)
	m.ObservePhase(PhaseAnalyze, 2*time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(m.phaseDuration))
}

func TestHandler_ServesMetricsAndHealth(t *testing.T) {
	m := New()
	m.SubmissionFinished(OutcomeValidation)

	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `moodjournal_submissions_total{outcome="validation"} 1`)

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServe_StopsWithContext(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New().Serve(ctx, addr, logging.NewNop()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
