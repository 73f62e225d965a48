package bdata

import (
	"sync/atomic"
)

type State int32

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// LoadResult is what the background load task hands to the Gate.
type LoadResult struct {
	Index  *Index
	Report LoadReport
	Err    error
}

type outcome struct {
	state  State
	index  *Index
	report LoadReport
	err    error
}

// Gate tracks load completion. It starts in StateLoading and moves once to
// StateReady or StateFailed.
type Gate struct {
	published atomic.Pointer[outcome]
}

// Publish records the load result. Only the first call has an effect.
func (g *Gate) Publish(result LoadResult) bool {
	o := &outcome{state: StateReady, index: result.Index, report: result.Report}
	if result.Err != nil || result.Index == nil {
		o = &outcome{state: StateFailed, report: result.Report, err: result.Err}
		if o.err == nil {
			o.err = ErrUnavailable
		}
	}
	return g.published.CompareAndSwap(nil, o)
}

func (g *Gate) State() State {
	if o := g.published.Load(); o != nil {
		return o.state
	}
	return StateLoading
}

// Index returns the loaded index, or ErrNotReady/ErrUnavailable.
func (g *Gate) Index() (*Index, error) {
	o := g.published.Load()
	switch {
	case o == nil:
		return nil, ErrNotReady
	case o.state == StateFailed:
		return nil, ErrUnavailable
	}
	return o.index, nil
}

// Err returns the load error once the gate has failed.
func (g *Gate) Err() error {
	if o := g.published.Load(); o != nil {
		return o.err
	}
	return nil
}

func (g *Gate) Report() LoadReport {
	if o := g.published.Load(); o != nil {
		return o.report
	}
	return LoadReport{}
}
