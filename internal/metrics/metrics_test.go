package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

var errMissing = errors.New("missing")

func TestOutcome(t *testing.T) {
	known := map[error]string{errMissing: "not_found"}
	assert.Equal(t, "ok", Outcome(nil, known))
	assert.Equal(t, "not_found", Outcome(errMissing, known))
	assert.Equal(t, "not_found", Outcome(errors.Join(errors.New("wrap"), errMissing), known))
	assert.Equal(t, "error", Outcome(errors.New("boom"), known))
}

func TestObserveOp(t *testing.T) {
	c := serviceOps.WithLabelValues("items", "get", "ok")
	before := testutil.ToFloat64(c)
	ObserveOp("items", "get", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestObserveCart(t *testing.T) {
	before := testutil.ToFloat64(cartActions.WithLabelValues("add"))
	ObserveCart("add", 3)
	assert.Equal(t, before+1, testutil.ToFloat64(cartActions.WithLabelValues("add")))
	assert.Equal(t, 3.0, testutil.ToFloat64(cartLines))
}
