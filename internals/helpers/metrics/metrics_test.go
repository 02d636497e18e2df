package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.IncCheckout("gym_class", "ok")
	m.IncCheckout("gym_class", "ok")
	m.IncPaymentStatus("paid")
	m.IncJob("expire_memberships", errors.New("x"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("gym_class", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentStatuses.WithLabelValues("paid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("expire_memberships", "error")))

	var nilM *Metrics
	assert.NotPanics(t, func() { nilM.IncCheckout("x", "ok") })
}
