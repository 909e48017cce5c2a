package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/atlekbai/stateflow"
	"github.com/atlekbai/stateflow/metrics"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		showMetrics bool
		keepGoing   bool
	)

	runCmd := &cobra.Command{
		Use:   "run <file> [trigger...]",
		Short: "Fire triggers against a machine definition",
		Long: `Build the machine described by <file> and fire each trigger in order.
Every firing is printed with its outcome. The first failure stops the run
unless --keep-going is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), cmd.OutOrStdout(), args[0], args[1:], showMetrics, keepGoing)
		},
	}

	runCmd.Flags().BoolVar(&showMetrics, "metrics", false, "print the collected Prometheus metrics after the run")
	runCmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "continue firing after a failed trigger")
	return runCmd
}

// trace keeps the events reported by the machine in firing order.
type trace struct {
	mu     sync.Mutex
	events []stateflow.FireEvent
}

func (t *trace) ObserveFire(_ context.Context, event stateflow.FireEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *trace) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

func (t *trace) last() (stateflow.FireEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.events) == 0 {
		return stateflow.FireEvent{}, false
	}
	return t.events[len(t.events)-1], true
}

func (a *app) run(ctx context.Context, out io.Writer, path string, triggers []string, showMetrics, keepGoing bool) error {
	collector := metrics.NewCollector()
	reg := prometheus.NewRegistry()
	if err := collector.Register(reg); err != nil {
		return err
	}

	tr := &trace{}
	m, _, err := a.loadMachine(path, stateflow.WithObserver(collector), stateflow.WithObserver(tr))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s\n", HeaderStyle.Render(m.Name()), InfoStyle.Render("starting in "+m.State()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	worker := stateflow.NewWorker(m, stateflow.DefaultQueueSize)
	stopped := make(chan error, 1)
	go func() {
		stopped <- worker.Run(ctx)
	}()

	var errz []error
	for _, trigger := range triggers {
		seen := tr.len()
		err := worker.Fire(ctx, trigger)
		if tr.len() > seen {
			event, _ := tr.last()
			fmt.Fprintln(out, formatEvent(event))
		} else if err != nil {
			fmt.Fprintln(out, ErrorStyle.Render(fmt.Sprintf("%s failed: %v", trigger, err)))
		}

		if err != nil {
			errz = append(errz, err)
			if !keepGoing {
				break
			}
		}
	}

	cancel()
	if err := <-stopped; err != nil && !errors.Is(err, context.Canceled) {
		errz = append(errz, err)
	}

	fmt.Fprintf(out, "%s %s\n", InfoStyle.Render("final state"), StateStyle.Render(m.State()))

	if showMetrics {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}

	return errors.Join(errz...)
}

func formatEvent(event stateflow.FireEvent) string {
	trigger := TriggerStyle.Render(fmt.Sprint(event.Trigger))
	arrow := ArrowStyle.Render("-->")
	source := StateStyle.Render(fmt.Sprint(event.Source))

	switch event.Outcome {
	case stateflow.OutcomeTransitioned:
		return fmt.Sprintf("%s %s %s %s", source, trigger, arrow, StateStyle.Render(fmt.Sprint(event.Destination)))
	case stateflow.OutcomeInternal:
		return fmt.Sprintf("%s %s %s", source, trigger, InternalStyle.Render("(internal)"))
	case stateflow.OutcomeUnhandled:
		return fmt.Sprintf("%s %s %s", source, trigger, InfoStyle.Render("(unhandled)"))
	default:
		return fmt.Sprintf("%s %s %s", source, trigger, ErrorStyle.Render(fmt.Sprintf("failed: %v", event.Err)))
	}
}

func writeMetrics(out io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(out, family); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
