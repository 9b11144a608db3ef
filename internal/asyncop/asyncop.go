// Package asyncop tracks a single long-running operation such as a login or
// an order submission: Idle, InFlight, then Succeeded or Failed.
package asyncop

import (
	"errors"
	"sync"
)

type State string

const (
	Idle      State = "idle"
	InFlight  State = "in_flight"
	Succeeded State = "succeeded"
	Failed    State = "failed"
)

var ErrInFlight = errors.New("operation already in flight")

type Op struct {
	mu    sync.Mutex
	state State
	err   error
}

func (o *Op) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == "" {
		return Idle
	}
	return o.state
}

// Err is the error of the last failed run.
func (o *Op) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Begin moves the op to InFlight. A second Begin before Finish returns ErrInFlight.
func (o *Op) Begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == InFlight {
		return ErrInFlight
	}
	o.state = InFlight
	o.err = nil
	return nil
}

func (o *Op) Finish(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.state = Failed
		o.err = err
		return
	}
	o.state = Succeeded
	o.err = nil
}

func (o *Op) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = Idle
	o.err = nil
}

// Run wraps fn between Begin and Finish.
func (o *Op) Run(fn func() error) error {
	if err := o.Begin(); err != nil {
		return err
	}
	err := fn()
	o.Finish(err)
	return err
}
