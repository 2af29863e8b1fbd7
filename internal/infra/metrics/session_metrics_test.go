package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniblog/config"
	"miniblog/internal/domain/service"
)

func TestSessionMetrics_CountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewSessionMetrics(reg)
	require.NoError(t, err)

	m.ObserveLogin(service.OutcomeSuccess)
	m.ObserveLogin(service.OutcomeFailure)
	m.ObserveLogin(service.OutcomeFailure)
	m.ObserveRefresh(service.OutcomeSuccess)
	m.ObserveLogout()
	m.ObserveReuse(config.ReusePolicyRevokeAll)
	m.ObserveDuration("refresh", 20*time.Millisecond)

	impl, ok := m.(*sessionMetrics)
	require.True(t, ok)
	assert.InDelta(t, 1, testutil.ToFloat64(impl.logins.WithLabelValues(service.OutcomeSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(impl.logins.WithLabelValues(service.OutcomeFailure)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(impl.logouts), 0)

	expected := `
# HELP miniblog_auth_reuse_detected_total Revoked refresh tokens presented again, by configured policy.
# TYPE miniblog_auth_reuse_detected_total counter
miniblog_auth_reuse_detected_total{policy="revoke_all"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "miniblog_auth_reuse_detected_total"))
}

func TestSessionMetrics_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewSessionMetrics(reg)
	require.NoError(t, err)

	_, err = NewSessionMetrics(reg)
	assert.Error(t, err)
}

func TestNew_DisabledReturnsNoop(t *testing.T) {
	m, err := New(Params{Config: &config.Config{}, Registry: NewRegistry()})
	require.NoError(t, err)
	assert.IsType(t, noopMetrics{}, m)

	m, err = New(Params{Config: &config.Config{Metrics: &config.MetricsConfig{Enabled: true}}, Registry: NewRegistry()})
	require.NoError(t, err)
	assert.IsType(t, &sessionMetrics{}, m)
}
