package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLoginAttemptsCounter(t *testing.T) {
	before := testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues(OutcomeSuccess))
	LoginAttemptsTotal.WithLabelValues(OutcomeSuccess).Inc()
	after := testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues(OutcomeSuccess))

	assert.Equal(t, before+1, after)
}

func TestKeyLockoutsCounter(t *testing.T) {
	before := testutil.ToFloat64(KeyLockoutsTotal)
	KeyLockoutsTotal.Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(KeyLockoutsTotal))
}
