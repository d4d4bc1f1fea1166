package api

import (
	"github.com/markphelps/optional"

	"github.com/vinhtrinh326/prrsched/internal/metrics"
	"github.com/vinhtrinh326/prrsched/internal/process"
	"github.com/vinhtrinh326/prrsched/internal/scheduler"
)

type Job struct {
	ProcessId int64 `json:"pid"`
	Arrive    int64 `json:"arrive"`
	Burst     int64 `json:"burst"`
	Priority  int64 `json:"priority"`
}

// ScheduleRequest falls back to the configured quantum and overhead when
// either is omitted.
type ScheduleRequest struct {
	Quantum   optional.Int64   `json:"quantum"`
	Overhead  optional.Float64 `json:"overhead"`
	Processes []Job            `json:"processes"`
}

func (r *ScheduleRequest) toProcesses() []*process.Process {
	out := make([]*process.Process, len(r.Processes))
	for i, j := range r.Processes {
		out[i] = process.New(j.ProcessId, j.Arrive, j.Burst, j.Priority)
	}
	return out
}

type ScheduleResponse struct {
	Quantum   int64                 `json:"quantum"`
	Overhead  float64               `json:"overhead"`
	TotalTime int64                 `json:"total_time"`
	IdleTime  int64                 `json:"idle_time"`
	Processes []metrics.Row         `json:"processes"`
	Trace     []scheduler.TimeSlice `json:"trace"`
	Metrics   metrics.Metrics       `json:"metrics"`
}
