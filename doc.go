// Package stateflow provides a generic finite state machine library for Go.
//
// A machine is configured with a fluent API and then driven by firing triggers:
//
//   - Generic types for states and triggers
//   - Guarded transitions, where the first candidate whose guard passes wins
//   - Dynamic destinations chosen by a selector when the trigger fires
//   - Internal transitions that run an action without leaving the state
//   - Per-state entry and exit actions plus machine-wide default actions
//   - An unhandled trigger handler in place of the not-found error
//   - Introspection through GetInfo and graph generation
//
// # Basic Usage
//
// Create a state machine with initial state:
//
//	sm := stateflow.NewMachine[State, Trigger](Idle, stateflow.WithName("door"))
//
// Configure states with transitions:
//
//	sm.Configure(Idle).
//	    Permit(Open, Opened).
//	    OnExit(func() { fmt.Println("leaving idle") })
//
// Several candidates for one trigger are declared with OnTrigger:
//
//	sm.Configure(Opened).OnTrigger(Close, func(t *stateflow.TransitionConfiguration[State, Trigger]) {
//	    t.ChangeState(Locked).If(hasKey, "has key")
//	    t.ChangeState(Idle)
//	})
//
// Fire triggers to cause transitions:
//
//	err := sm.Fire(Open)
//
// # Firing Order
//
// A state-changing transition runs the source's exit actions, the default exit actions,
// writes the new state, then runs the default entry actions and the destination's entry
// actions. States opt out of the defaults with IgnoreDefaultEntry and IgnoreDefaultExit.
//
// # Graph Generation
//
// Export to DOT, Mermaid or a terminal tree:
//
//	import "github.com/atlekbai/stateflow/graph"
//	dot := graph.UmlDotGraph(sm.GetInfo())
package stateflow
