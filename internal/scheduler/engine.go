// Package scheduler runs the priority round-robin simulation.
package scheduler

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vinhtrinh326/prrsched/internal/process"
)

var ErrInvalidQuantum = errors.New("invalid quantum")

// TimeSlice is one dispatch: PID ran on the CPU from Start to Stop.
type TimeSlice struct {
	PID   int64 `json:"pid"`
	Start int64 `json:"start"`
	Stop  int64 `json:"stop"`
}

type Result struct {
	Completed []*process.Process // in completion order
	Switches  int
	TotalTime int64
	Idle      int64
	Trace     []TimeSlice
}

// sim holds the clock and counters of a single run.
type sim struct {
	clock    int64
	switches int
	idle     int64
	pending  []*process.Process
	ready    *readyQueue
}

// admit moves every pending process that has arrived by the current clock
// into the ready queue. pending is sorted by arrival.
func (s *sim) admit() {
	n := 0
	for n < len(s.pending) && s.pending[n].Arrival <= s.clock {
		s.ready.enq(s.pending[n])
		n++
	}
	s.pending = s.pending[n:]
}

// Run simulates the workload with the given quantum. The input processes are
// not modified; Result.Completed holds fresh copies carrying the start and
// completion times.
func Run(processes []*process.Process, quantum int64) (Result, error) {
	if quantum < 1 {
		return Result{}, fmt.Errorf("%w: quantum must be positive, got %d", ErrInvalidQuantum, quantum)
	}

	pending := make([]*process.Process, len(processes))
	for i, p := range processes {
		if err := p.Validate(); err != nil {
			return Result{}, err
		}
		pending[i] = p.Clone()
	}
	if err := checkHorizon(pending); err != nil {
		return Result{}, err
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Arrival < pending[j].Arrival
	})

	var (
		s = &sim{
			pending: pending,
			ready:   newReadyQueue(),
		}
		completed = make([]*process.Process, 0, len(processes))
		trace     = make([]TimeSlice, 0)
	)

	for len(s.pending) > 0 || s.ready.qlen() > 0 {
		s.admit()

		if s.ready.qlen() == 0 {
			// Nothing to run before the next arrival.
			next := s.pending[0].Arrival
			s.idle += next - s.clock
			s.clock = next
			continue
		}

		current := s.ready.deq()
		if !current.Start.Present() {
			current.Start.Set(int(s.clock))
		}

		start := s.clock
		s.clock += current.Run(quantum)
		s.switches++
		trace = append(trace, TimeSlice{
			PID:   current.PID,
			Start: start,
			Stop:  s.clock,
		})

		// Arrivals during the slice are queued ahead of the preempted process.
		s.admit()

		if current.Done() {
			current.Completion.Set(int(s.clock))
			completed = append(completed, current)
		} else {
			s.ready.enq(current)
		}
	}

	return Result{
		Completed: completed,
		Switches:  s.switches,
		TotalTime: s.clock,
		Idle:      s.idle,
		Trace:     trace,
	}, nil
}

// checkHorizon rejects workloads whose final clock, bounded by the latest
// arrival plus the total burst, does not fit in an int64.
func checkHorizon(processes []*process.Process) error {
	var totalBurst, lastArrival int64
	for _, p := range processes {
		if totalBurst > math.MaxInt64-p.Burst {
			return fmt.Errorf("%w: total burst overflows the clock", process.ErrInvalidInput)
		}
		totalBurst += p.Burst
		if p.Arrival > lastArrival {
			lastArrival = p.Arrival
		}
	}
	if lastArrival > math.MaxInt64-totalBurst {
		return fmt.Errorf("%w: arrival %d plus total burst %d overflows the clock", process.ErrInvalidInput, lastArrival, totalBurst)
	}
	return nil
}

// Dispatches returns how many slices Run hands out for the workload: each
// process needs ceil(burst/quantum) of them. The count saturates at
// math.MaxInt64.
func Dispatches(processes []*process.Process, quantum int64) (int64, error) {
	if quantum < 1 {
		return 0, fmt.Errorf("%w: quantum must be positive, got %d", ErrInvalidQuantum, quantum)
	}
	var total int64
	for _, p := range processes {
		if err := p.Validate(); err != nil {
			return 0, err
		}
		n := (p.Burst-1)/quantum + 1
		if total > math.MaxInt64-n {
			total = math.MaxInt64
			continue
		}
		total += n
	}
	return total, nil
}
