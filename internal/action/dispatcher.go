package action

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kk-code-lab/vdir/internal/state"
	"github.com/kk-code-lab/vdir/internal/vfs"
)

// ErrUnknownAction reports a request for an id the registry does not know.
// This is a configuration error: it means a collaborator is mis-wired, so it
// is surfaced and logged rather than swallowed.
var ErrUnknownAction = errors.New("action: unknown action")

type request struct {
	id      string
	payload Payload
}

// Dispatcher resolves action requests against the registry and runs their
// effects. Execution is synchronous and single-threaded: requests issued by
// a handler join a queue that is drained in issue order
// before the outer Dispatch call returns, so execution order is an explicit
// property rather than a property of the call stack. Cycle prevention is a
// contract on action authors.
type Dispatcher struct {
	registry *Registry
	reducer  *state.StateReducer
	state    *state.AppState
	logger   *zap.Logger

	queue    []request
	draining bool
	publish  func(*state.AppState)
}

// NewDispatcher wires a dispatcher over the given registry and state holder.
func NewDispatcher(registry *Registry, st *state.AppState, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		registry: registry,
		reducer:  state.NewStateReducer(),
		state:    st,
		logger:   logger,
	}
}

// OnPublish registers the hook fired once per top-level dispatch, after the
// whole request chain has run and the state version has been bumped.
func (d *Dispatcher) OnPublish(fn func(*state.AppState)) {
	d.publish = fn
}

// State exposes the current state for readers between dispatches.
func (d *Dispatcher) State() *state.AppState {
	return d.state
}

// Dispatch runs the action and everything it transitively requests. The
// first error of the chain is returned; later requests still run, since a
// failed effect must not silently cancel unrelated queued work.
func (d *Dispatcher) Dispatch(id string, payload Payload) error {
	d.queue = append(d.queue, request{id: id, payload: payload})
	if d.draining {
		return nil
	}
	d.draining = true
	defer func() { d.draining = false }()

	var firstErr error
	for len(d.queue) > 0 {
		req := d.queue[0]
		d.queue = d.queue[1:]
		if err := d.run(req); err != nil {
			d.logger.Error("action failed",
				zap.String("action", req.id),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	d.state.Version++
	if d.publish != nil {
		d.publish(d.state)
	}
	return firstErr
}

func (d *Dispatcher) run(req request) error {
	def, ok := d.registry.Lookup(req.id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, req.id)
	}

	selection := d.selectionFor(def)
	if def.RequiresSelection && len(selection) == 0 {
		// Inert, not an error.
		return nil
	}
	if def.Effect == nil {
		return nil
	}

	env := &Env{
		State:      d.state,
		Payload:    req.payload,
		Selection:  selection,
		dispatcher: d,
	}
	return def.Effect(env)
}

func (d *Dispatcher) selectionFor(def Definition) []*vfs.Node {
	nodes := d.state.SelectedNodes()
	if def.FileFilter == nil {
		return nodes
	}
	out := make([]*vfs.Node, 0, len(nodes))
	for _, n := range nodes {
		if def.FileFilter(n) {
			out = append(out, n)
		}
	}
	return out
}

// Env is what an effect handler sees: the request payload, the filtered
// selection, read access to current state, and the two capabilities a
// handler may use — applying state commands and requesting further actions.
type Env struct {
	State     *state.AppState
	Payload   Payload
	Selection []*vfs.Node

	dispatcher *Dispatcher
}

// Apply runs commands through the reducer immediately, in order. Reads made
// later in the same dispatch chain observe the updated snapshot.
func (e *Env) Apply(cmds ...state.Command) error {
	for _, cmd := range cmds {
		if _, err := e.dispatcher.reducer.Reduce(e.dispatcher.state, cmd); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch queues a further action request. It runs after the current
// handler returns, before the outer Dispatch call completes.
func (e *Env) Dispatch(id string, payload Payload) {
	e.dispatcher.queue = append(e.dispatcher.queue, request{id: id, payload: payload})
}
