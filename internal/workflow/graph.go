package workflow

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	wf "github.com/inkwell-ai/inkwell/workflow"
)

// keyExecution is the state bag key carrying the live execution through
// graph traversal.
const keyExecution = "execution"

// nodeDone is the graph's exit node. Every step routes to it when advance
// stops holding; the final step routes to it unconditionally.
const nodeDone = "done"

// buildGraph assembles the remaining book pipeline as a state graph, from
// the entry step through the last catalog step. The step nodes are chained
// in catalog order; each edge to the next step is guarded by advance, with
// a counterpart edge to the exit node, so a traversal stops cleanly at the
// first boundary where advance no longer holds.
func buildGraph(entry wf.Step, advance func(state.State) bool) (state.StateGraph, error) {
	order := wf.Steps()
	start := -1
	for i, step := range order {
		if step == entry {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, wf.ErrInvalidStep
	}
	order = order[start:]

	cfg := gaoconfig.DefaultGraphConfig("inkwell-book")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	for _, step := range order {
		if err := graph.AddNode(string(step), stepNode(step)); err != nil {
			return nil, err
		}
	}

	if err := graph.AddNode(nodeDone, doneNode()); err != nil {
		return nil, err
	}

	for i, step := range order {
		if i == len(order)-1 {
			if err := graph.AddEdge(string(step), nodeDone, nil); err != nil {
				return nil, err
			}
			continue
		}

		if err := graph.AddEdge(string(step), string(order[i+1]), advance); err != nil {
			return nil, err
		}
		if err := graph.AddEdge(string(step), nodeDone, state.Not(advance)); err != nil {
			return nil, err
		}
	}

	if err := graph.SetEntryPoint(string(order[0])); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint(nodeDone); err != nil {
		return nil, err
	}

	return graph, nil
}

// stepNode wraps one pipeline step as a function node. The node runs the
// step's full lifecycle and records any failure on the execution so the
// driver can preserve sentinel identity regardless of how the engine
// reports the traversal error.
func stepNode(step wf.Step) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		e, err := boundExecution(s)
		if err != nil {
			return s, err
		}

		if err := e.runStep(ctx, step); err != nil {
			e.err = err
			return s, err
		}

		return s, nil
	})
}

func doneNode() state.StateNode {
	return state.NewFunctionNode(func(_ context.Context, s state.State) (state.State, error) {
		return s, nil
	})
}

func boundExecution(s state.State) (*execution, error) {
	val, ok := s.Get(keyExecution)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", keyExecution)
	}

	e, ok := val.(*execution)
	if !ok {
		return nil, fmt.Errorf("%s is not an execution", keyExecution)
	}

	return e, nil
}
