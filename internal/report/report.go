// Package report renders a finished simulation for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vinhtrinh326/prrsched/internal/metrics"
	"github.com/vinhtrinh326/prrsched/internal/scheduler"
)

// Render writes the title, gantt chart, schedule table and metric lines.
func Render(w io.Writer, quantum int64, rows []metrics.Row, trace []scheduler.TimeSlice, m metrics.Metrics) {
	outputTitle(w, fmt.Sprintf("Priority Round Robin [Time Quantum = %d]", quantum))
	outputGantt(w, trace)
	outputSchedule(w, rows, m)
	outputMetrics(w, m)
}

func outputTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

func outputGantt(w io.Writer, gantt []scheduler.TimeSlice) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	_, _ = fmt.Fprint(w, "|")
	for i := range gantt {
		if _, idle := idleBefore(gantt, i); idle {
			_, _ = fmt.Fprint(w, "  idle  |")
		}
		pid := fmt.Sprint(gantt[i].PID)
		padding := strings.Repeat(" ", (8-len(pid))/2)
		_, _ = fmt.Fprint(w, padding, pid, padding, "|")
	}
	_, _ = fmt.Fprintln(w)
	for i := range gantt {
		if from, idle := idleBefore(gantt, i); idle {
			_, _ = fmt.Fprint(w, fmt.Sprint(from), "\t")
		}
		_, _ = fmt.Fprint(w, fmt.Sprint(gantt[i].Start), "\t")
		if len(gantt)-1 == i {
			_, _ = fmt.Fprint(w, fmt.Sprint(gantt[i].Stop))
		}
	}
	_, _ = fmt.Fprintf(w, "\n\n")
}

// idleBefore reports whether the CPU sat idle right before slice i and, if
// so, when that idle period began.
func idleBefore(gantt []scheduler.TimeSlice, i int) (int64, bool) {
	var from int64
	if i > 0 {
		from = gantt[i-1].Stop
	}
	return from, gantt[i].Start > from
}

func outputSchedule(w io.Writer, rows []metrics.Row, m metrics.Metrics) {
	_, _ = fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Priority", "Burst", "Arrival", "Start", "Wait", "Turnaround", "Exit"})
	for _, r := range rows {
		table.Append([]string{
			fmt.Sprint(r.PID),
			fmt.Sprint(r.Priority),
			fmt.Sprint(r.Burst),
			fmt.Sprint(r.Arrival),
			fmt.Sprint(r.Start),
			fmt.Sprint(r.Waiting),
			fmt.Sprint(r.Turnaround),
			fmt.Sprint(r.Completion),
		})
	}
	table.SetFooter([]string{"", "", "", "", "",
		fmt.Sprintf("Average\n%.2f", m.AvgWaiting),
		fmt.Sprintf("Average\n%.2f", m.AvgTurnaround),
		fmt.Sprintf("Throughput\n%.2f/t", m.Throughput)})
	table.Render()
}

func outputMetrics(w io.Writer, m metrics.Metrics) {
	_, _ = fmt.Fprintln(w, "\nMetrics:")
	for _, p := range m.Pairs() {
		_, _ = fmt.Fprintf(w, "%s: %v\n", p.Label, p.Value)
	}
}
