package metrics

import (
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/vinhtrinh326/prrsched/internal/process"
)

// DefaultOverhead is the time charged to each context switch when computing
// CPU utilization.
const DefaultOverhead = 0.5

var ErrEmptyWorkload = errors.New("empty workload")

type Metrics struct {
	AvgWaiting     float64 `json:"avg_waiting"`
	AvgTurnaround  float64 `json:"avg_turnaround"`
	AvgResponse    float64 `json:"avg_response"`
	CPUUtilization float64 `json:"cpu_utilization"`
	Throughput     float64 `json:"throughput"`
	Switches       int     `json:"context_switches"`
}

// Pair is a labeled metric value, in presentation order.
type Pair struct {
	Label string
	Value any
}

func (m Metrics) Pairs() []Pair {
	return []Pair{
		{"Avg Waiting Time", m.AvgWaiting},
		{"Avg Turnaround Time", m.AvgTurnaround},
		{"Avg Response Time", m.AvgResponse},
		{"CPU Utilization", m.CPUUtilization},
		{"Throughput", m.Throughput},
		{"Context Switches", m.Switches},
	}
}

// Row is the per-process view of a completed run.
type Row struct {
	PID        int64 `json:"pid"`
	Arrival    int64 `json:"arrive"`
	Burst      int64 `json:"burst"`
	Priority   int64 `json:"priority"`
	Start      int64 `json:"start"`
	Completion int64 `json:"completion"`
	Turnaround int64 `json:"turnaround"`
	Waiting    int64 `json:"waiting"`
	Response   int64 `json:"response"`
}

func Rows(completed []*process.Process) []Row {
	rows := make([]Row, len(completed))
	for i, p := range completed {
		rows[i] = Row{
			PID:        p.PID,
			Arrival:    p.Arrival,
			Burst:      p.Burst,
			Priority:   p.Priority,
			Start:      int64(p.Start.OrElse(0)),
			Completion: int64(p.Completion.OrElse(0)),
			Turnaround: p.Turnaround(),
			Waiting:    p.Waiting(),
			Response:   p.Response(),
		}
	}
	return rows
}

// Compute derives the aggregate statistics of a finished run. Each context
// switch costs overhead time units against utilization; the result is not
// clamped and may be negative.
func Compute(completed []*process.Process, switches int, totalTime int64, overhead float64) (Metrics, error) {
	if len(completed) == 0 {
		return Metrics{}, fmt.Errorf("%w: no completed processes", ErrEmptyWorkload)
	}
	if totalTime <= 0 {
		return Metrics{}, fmt.Errorf("%w: total time is %d", ErrEmptyWorkload, totalTime)
	}

	var (
		n           = float64(len(completed))
		total       = float64(totalTime)
		waiting     = make([]float64, len(completed))
		turnarounds = make([]float64, len(completed))
		responses   = make([]float64, len(completed))
	)
	for i, p := range completed {
		if !p.Completion.Present() {
			return Metrics{}, fmt.Errorf("%w: pid %d did not complete", process.ErrInvalidInput, p.PID)
		}
		turnarounds[i] = float64(p.Turnaround())
		waiting[i] = float64(p.Waiting())
		responses[i] = float64(p.Response())
	}

	return Metrics{
		AvgWaiting:     round(stat.Mean(waiting, nil)),
		AvgTurnaround:  round(stat.Mean(turnarounds, nil)),
		AvgResponse:    round(stat.Mean(responses, nil)),
		CPUUtilization: round(1 - float64(switches)*overhead/total),
		Throughput:     round(n / total),
		Switches:       switches,
	}, nil
}

// round formats x to two decimals and parses it back, so the rounding is
// decided on the exact binary value: 2.675 is stored below the half and
// becomes 2.67.
func round(x float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	if err != nil {
		return x
	}
	return r
}
