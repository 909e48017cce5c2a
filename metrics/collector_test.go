package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlekbai/stateflow"
	"github.com/atlekbai/stateflow/metrics"
)

func newMachine(c *metrics.Collector) *stateflow.Machine[string, string] {
	m := stateflow.NewMachine[string, string]("Idle",
		stateflow.WithName("door"),
		stateflow.WithObserver(c))
	m.Configure("Idle").
		Permit("open", "Open").
		InternalTransition("knock", func() {})
	m.Configure("Open").
		Permit("close", "Idle")
	return m
}

func TestCollector_CountsOutcomes(t *testing.T) {
	c := metrics.NewCollector()
	m := newMachine(c)

	require.NoError(t, m.Fire("knock"))
	require.NoError(t, m.Fire("open"))
	require.NoError(t, m.Fire("close"))
	require.Error(t, m.Fire("close"))

	expected := `
# HELP stateflow_fires_total Total number of triggers fired, by outcome
# TYPE stateflow_fires_total counter
stateflow_fires_total{machine="door",outcome="failed"} 1
stateflow_fires_total{machine="door",outcome="internal"} 1
stateflow_fires_total{machine="door",outcome="transitioned"} 2
# HELP stateflow_transitions_total Total number of completed state changes
# TYPE stateflow_transitions_total counter
stateflow_transitions_total{destination="Idle",machine="door",source="Open"} 1
stateflow_transitions_total{destination="Open",machine="door",source="Idle"} 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"stateflow_fires_total", "stateflow_transitions_total")
	assert.NoError(t, err)
}

func TestCollector_Duration(t *testing.T) {
	c := metrics.NewCollector()
	m := newMachine(c)

	require.NoError(t, m.Fire("open"))

	assert.Equal(t, 1, testutil.CollectAndCount(c, "stateflow_fire_duration_seconds"))
}

func TestCollector_Register(t *testing.T) {
	c := metrics.NewCollector()
	reg := prometheus.NewPedanticRegistry()

	require.NoError(t, c.Register(reg))
	assert.Error(t, c.Register(reg))

	m := newMachine(c)
	require.NoError(t, m.Fire("open"))

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"stateflow_fires_total",
		"stateflow_transitions_total",
		"stateflow_fire_duration_seconds",
	}, names)
}
