package scheduler

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinhtrinh326/prrsched/internal/process"
)

func procs(rows ...[4]int64) []*process.Process {
	out := make([]*process.Process, len(rows))
	for i, r := range rows {
		out[i] = process.New(r[0], r[1], r[2], r[3])
	}
	return out
}

func pids(list []*process.Process) []int64 {
	out := make([]int64, len(list))
	for i, p := range list {
		out[i] = p.PID
	}
	return out
}

func TestRun_SingleProcess(t *testing.T) {
	ass := assert.New(t)
	res, err := Run(procs([4]int64{1, 0, 5, 1}), 2)
	require.NoError(t, err)

	ass.Equal(3, res.Switches)
	ass.Equal(int64(5), res.TotalTime)
	ass.Equal([]TimeSlice{
		{PID: 1, Start: 0, Stop: 2},
		{PID: 1, Start: 2, Stop: 4},
		{PID: 1, Start: 4, Stop: 5},
	}, res.Trace)

	require.Len(t, res.Completed, 1)
	p := res.Completed[0]
	ass.Equal(5, p.Completion.OrElse(-1))
	ass.Equal(0, p.Start.OrElse(-1))
	ass.Equal(int64(0), p.Waiting())
	ass.Equal(int64(5), p.Turnaround())
}

func TestRun_PriorityWins(t *testing.T) {
	ass := assert.New(t)
	res, err := Run(procs([4]int64{1, 0, 4, 2}, [4]int64{2, 0, 4, 1}), 2)
	require.NoError(t, err)

	ass.Equal(4, res.Switches)
	ass.Equal(int64(8), res.TotalTime)
	ass.Equal([]int64{2, 1}, pids(res.Completed))
	ass.Equal(4, res.Completed[0].Completion.OrElse(-1))
	ass.Equal(8, res.Completed[1].Completion.OrElse(-1))
	ass.Equal(4, res.Completed[1].Start.OrElse(-1))
}

func TestRun_IdleUntilArrival(t *testing.T) {
	ass := assert.New(t)
	res, err := Run(procs([4]int64{1, 10, 1, 1}), 1)
	require.NoError(t, err)

	ass.Equal(int64(11), res.TotalTime)
	ass.Equal(1, res.Switches)
	ass.Equal(int64(10), res.Idle)
	ass.Equal(10, res.Completed[0].Start.OrElse(-1))
	ass.Equal(int64(0), res.Completed[0].Waiting())
	ass.Equal(int64(1), res.Completed[0].Turnaround())
}

func TestRun_IdleGapBetweenProcesses(t *testing.T) {
	ass := assert.New(t)
	res, err := Run(procs([4]int64{1, 0, 2, 1}, [4]int64{2, 5, 2, 1}), 4)
	require.NoError(t, err)

	ass.Equal(int64(7), res.TotalTime)
	ass.Equal(int64(3), res.Idle)
	ass.Equal([]TimeSlice{{PID: 1, Start: 0, Stop: 2}, {PID: 2, Start: 5, Stop: 7}}, res.Trace)
}

func TestRun_EqualPriorityAndArrivalRoundRobin(t *testing.T) {
	res, err := Run(procs([4]int64{1, 0, 4, 1}, [4]int64{2, 0, 4, 1}), 2)
	require.NoError(t, err)

	// The preempted process is queued behind its peer.
	assert.Equal(t, []TimeSlice{
		{PID: 1, Start: 0, Stop: 2},
		{PID: 2, Start: 2, Stop: 4},
		{PID: 1, Start: 4, Stop: 6},
		{PID: 2, Start: 6, Stop: 8},
	}, res.Trace)
}

func TestRun_EarlierArrivalKeepsCPU(t *testing.T) {
	res, err := Run(procs([4]int64{1, 0, 4, 1}, [4]int64{2, 1, 2, 1}), 2)
	require.NoError(t, err)

	// Equal priority: the returning process still has the earlier arrival.
	assert.Equal(t, []int64{1, 1, 2}, tracePIDs(res.Trace))
	assert.Equal(t, []int64{1, 2}, pids(res.Completed))
}

func TestRun_HigherPriorityArrivesMidSlice(t *testing.T) {
	ass := assert.New(t)
	res, err := Run(procs([4]int64{1, 0, 6, 3}, [4]int64{2, 1, 3, 1}), 4)
	require.NoError(t, err)

	// No mid-slice preemption: P1 finishes its slice, then P2 is selected.
	ass.Equal([]TimeSlice{
		{PID: 1, Start: 0, Stop: 4},
		{PID: 2, Start: 4, Stop: 7},
		{PID: 1, Start: 7, Stop: 9},
	}, res.Trace)
	ass.Equal(int64(3), res.Completed[0].Waiting())
}

func TestRun_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		procs   []*process.Process
		quantum int64
		wantErr error
	}{
		{name: "zero quantum", procs: procs([4]int64{1, 0, 1, 1}), quantum: 0, wantErr: ErrInvalidQuantum},
		{name: "negative quantum", procs: procs([4]int64{1, 0, 1, 1}), quantum: -3, wantErr: ErrInvalidQuantum},
		{name: "zero burst", procs: procs([4]int64{1, 0, 0, 1}), quantum: 2, wantErr: process.ErrInvalidInput},
		{name: "negative arrival", procs: procs([4]int64{1, -2, 1, 1}), quantum: 2, wantErr: process.ErrInvalidInput},
		{name: "clock overflow", procs: procs([4]int64{1, math.MaxInt64 - 10, 5, 1}, [4]int64{2, 0, 10, 1}), quantum: 2, wantErr: process.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Run(tt.procs, tt.quantum)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, res.Completed)
		})
	}
}

func TestRun_EmptyWorkload(t *testing.T) {
	res, err := Run(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, res.Completed)
	assert.Zero(t, res.TotalTime)
	assert.Zero(t, res.Switches)
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	ass := assert.New(t)
	in := procs([4]int64{1, 0, 3, 1}, [4]int64{2, 1, 2, 0})

	first, err := Run(in, 1)
	require.NoError(t, err)
	second, err := Run(in, 1)
	require.NoError(t, err)

	for _, p := range in {
		ass.Equal(p.Burst, p.Remaining)
		ass.False(p.Start.Present())
		ass.False(p.Completion.Present())
	}
	ass.Equal(first.Trace, second.Trace)
	ass.Equal(first.Switches, second.Switches)
}

func TestRun_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		in := randomWorkload(rng)
		quantum := int64(rng.Intn(5) + 1)

		res, err := Run(in, quantum)
		require.NoError(t, err)
		require.Len(t, res.Completed, len(in))

		var totalBurst, minSwitches, maxArrival int64
		for _, p := range in {
			totalBurst += p.Burst
			minSwitches += (p.Burst + quantum - 1) / quantum
			if p.Arrival > maxArrival {
				maxArrival = p.Arrival
			}
		}

		var ran int64
		for _, ts := range res.Trace {
			ran += ts.Stop - ts.Start
		}
		assert.Equal(t, totalBurst, ran, "work conserved")
		assert.Equal(t, totalBurst+res.Idle, res.TotalTime)
		assert.Greater(t, res.TotalTime, maxArrival)
		assert.GreaterOrEqual(t, int64(res.Switches), minSwitches)
		assert.Len(t, res.Trace, res.Switches)

		for _, p := range res.Completed {
			assert.GreaterOrEqual(t, p.Waiting(), int64(0))
			assert.LessOrEqual(t, p.Start.OrElse(-1), p.Completion.OrElse(-1))
			assert.Zero(t, p.Remaining)
		}

		assert.Equal(t, referenceTrace(in, quantum), res.Trace)
	}
}

func TestDispatches(t *testing.T) {
	tests := []struct {
		name    string
		procs   []*process.Process
		quantum int64
		want    int64
		wantErr error
	}{
		{name: "exact slices", procs: procs([4]int64{1, 0, 4, 1}, [4]int64{2, 0, 4, 2}), quantum: 2, want: 4},
		{name: "partial last slice", procs: procs([4]int64{1, 0, 5, 1}), quantum: 2, want: 3},
		{name: "empty", quantum: 1, want: 0},
		{name: "saturates", procs: procs([4]int64{1, 0, math.MaxInt64, 1}, [4]int64{2, 0, math.MaxInt64, 1}), quantum: 1, want: math.MaxInt64},
		{name: "zero quantum", procs: procs([4]int64{1, 0, 1, 1}), quantum: 0, wantErr: ErrInvalidQuantum},
		{name: "zero burst", procs: procs([4]int64{1, 0, 0, 1}), quantum: 1, wantErr: process.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Dispatches(tt.procs, tt.quantum)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatches_MatchesRun(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		in := randomWorkload(rng)
		quantum := int64(rng.Intn(4) + 1)

		want, err := Dispatches(in, quantum)
		require.NoError(t, err)
		res, err := Run(in, quantum)
		require.NoError(t, err)
		assert.Equal(t, want, int64(res.Switches))
	}
}

func tracePIDs(trace []TimeSlice) []int64 {
	out := make([]int64, len(trace))
	for i, ts := range trace {
		out[i] = ts.PID
	}
	return out
}

func randomWorkload(rng *rand.Rand) []*process.Process {
	n := rng.Intn(8) + 1
	out := make([]*process.Process, n)
	for i := range out {
		out[i] = process.New(int64(i+1), int64(rng.Intn(12)), int64(rng.Intn(7)+1), int64(rng.Intn(3)))
	}
	return out
}

// referenceTrace re-sorts a plain slice before every dispatch, ticking the
// clock one unit at a time while idle.
func referenceTrace(in []*process.Process, quantum int64) []TimeSlice {
	pending := make([]*process.Process, len(in))
	for i, p := range in {
		pending[i] = p.Clone()
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].Arrival < pending[j].Arrival })

	var (
		clock int64
		queue []*process.Process
		trace = make([]TimeSlice, 0)
	)
	admit := func() {
		for len(pending) > 0 && pending[0].Arrival <= clock {
			queue = append(queue, pending[0])
			pending = pending[1:]
		}
	}
	for len(pending) > 0 || len(queue) > 0 {
		admit()
		if len(queue) == 0 {
			clock++
			continue
		}
		sort.SliceStable(queue, func(i, j int) bool {
			if queue[i].Priority != queue[j].Priority {
				return queue[i].Priority < queue[j].Priority
			}
			return queue[i].Arrival < queue[j].Arrival
		})
		current := queue[0]
		queue = queue[1:]
		start := clock
		clock += current.Run(quantum)
		trace = append(trace, TimeSlice{PID: current.PID, Start: start, Stop: clock})
		admit()
		if !current.Done() {
			queue = append(queue, current)
		}
	}
	return trace
}
