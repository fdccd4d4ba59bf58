package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDelivery(t *testing.T) {
	sent := testutil.ToFloat64(DeliveriesTotal.WithLabelValues("digest", "sent"))
	failed := testutil.ToFloat64(DeliveriesTotal.WithLabelValues("digest", "failed"))

	ObserveDelivery("digest", nil)
	ObserveDelivery("digest", errors.New("boom"))
	ObserveDelivery("digest", nil)

	assert.Equal(t, sent+2, testutil.ToFloat64(DeliveriesTotal.WithLabelValues("digest", "sent")))
	assert.Equal(t, failed+1, testutil.ToFloat64(DeliveriesTotal.WithLabelValues("digest", "failed")))
}

func TestObserveEvent(t *testing.T) {
	before := testutil.ToFloat64(EventsTotal.WithLabelValues("TURN_HANDLED", "true"))
	ObserveEvent("TURN_HANDLED", true)
	assert.Equal(t, before+1, testutil.ToFloat64(EventsTotal.WithLabelValues("TURN_HANDLED", "true")))
}
