package process

import (
	"errors"
	"fmt"
	"math"

	"github.com/markphelps/optional"
)

var ErrInvalidInput = errors.New("invalid input")

// Process is one unit of simulated work. PID, Arrival, Burst and Priority
// describe the workload and never change; Remaining, Start and Completion
// are owned by the scheduler while a run is in progress.
type Process struct {
	PID      int64
	Arrival  int64
	Burst    int64
	Priority int64 // lower value runs first

	Remaining  int64
	Start      optional.Int
	Completion optional.Int
}

func New(pid, arrival, burst, priority int64) *Process {
	return &Process{
		PID:       pid,
		Arrival:   arrival,
		Burst:     burst,
		Priority:  priority,
		Remaining: burst,
	}
}

// Validate reports whether p can be handed to the scheduler.
func (p *Process) Validate() error {
	if p.Arrival < 0 {
		return fmt.Errorf("%w: pid %d has negative arrival %d", ErrInvalidInput, p.PID, p.Arrival)
	}
	if p.Burst < 1 {
		return fmt.Errorf("%w: pid %d has non-positive burst %d", ErrInvalidInput, p.PID, p.Burst)
	}
	if p.Arrival > math.MaxInt64-p.Burst {
		return fmt.Errorf("%w: pid %d arrival %d plus burst %d overflows the clock", ErrInvalidInput, p.PID, p.Arrival, p.Burst)
	}
	return nil
}

// Reset returns p to its pre-run state.
func (p *Process) Reset() {
	p.Remaining = p.Burst
	p.Start = optional.Int{}
	p.Completion = optional.Int{}
}

// Clone copies the workload attributes into a fresh, unscheduled record.
func (p *Process) Clone() *Process {
	return New(p.PID, p.Arrival, p.Burst, p.Priority)
}

// Run consumes up to quantum units of remaining burst and returns how much
// was actually used.
func (p *Process) Run(quantum int64) int64 {
	ran := quantum
	if p.Remaining < ran {
		ran = p.Remaining
	}
	p.Remaining -= ran
	return ran
}

func (p *Process) Done() bool {
	return p.Remaining == 0
}

// Turnaround is completion minus arrival. It is zero until the process completes.
func (p *Process) Turnaround() int64 {
	if !p.Completion.Present() {
		return 0
	}
	return int64(p.Completion.OrElse(0)) - p.Arrival
}

// Waiting is the time spent ready but not running.
func (p *Process) Waiting() int64 {
	if !p.Completion.Present() {
		return 0
	}
	return p.Turnaround() - p.Burst
}

// Response is the delay between arrival and the first dispatch.
func (p *Process) Response() int64 {
	if !p.Start.Present() {
		return 0
	}
	return int64(p.Start.OrElse(0)) - p.Arrival
}

func (p *Process) String() string {
	return fmt.Sprintf("P%d(arrive=%d burst=%d priority=%d remaining=%d)",
		p.PID, p.Arrival, p.Burst, p.Priority, p.Remaining)
}
