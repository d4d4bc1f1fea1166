package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/vinhtrinh326/prrsched/api"
	"github.com/vinhtrinh326/prrsched/config"
	"github.com/vinhtrinh326/prrsched/internal/metrics"
	"github.com/vinhtrinh326/prrsched/internal/process"
	"github.com/vinhtrinh326/prrsched/internal/report"
	"github.com/vinhtrinh326/prrsched/internal/scheduler"
	"github.com/vinhtrinh326/prrsched/internal/util"
	"github.com/vinhtrinh326/prrsched/internal/workload"
)

const usage = "usage: prrsched <workload.csv> <time_quantum> | prrsched serve"

var ErrInvalidArgs = errors.New("invalid args")

func main() {
	cfg, err := config.GetSchedulerConfig()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := util.BuildLogger(os.Stderr, cfg.LogLevel)

	if len(os.Args) == 2 && os.Args[1] == "serve" {
		err = serve(cfg, logger)
	} else {
		err = run(os.Stdout, cfg, logger, os.Args...)
	}
	if err != nil {
		logger.Error("prrsched failed", util.ErrAttr(err))
		if errors.Is(err, ErrInvalidArgs) {
			_, _ = fmt.Fprintln(os.Stderr, usage)
		}
		os.Exit(1)
	}
}

func serve(cfg *config.SchedulerConfig, logger *slog.Logger) error {
	app := api.NewApp(api.NewSchedulerHandlerImpl(cfg, logger))
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("listening", slog.String("addr", addr))
	return app.Listen(addr)
}

// run loads the workload named by args[1], simulates it with the quantum in
// args[2] and writes the report to w.
func run(w io.Writer, cfg *config.SchedulerConfig, logger *slog.Logger, args ...string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: must give a scheduling file and a time quantum", ErrInvalidArgs)
	}
	quantum, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", scheduler.ErrInvalidQuantum, args[2])
	}

	f, closeFile, err := openProcessingFile(logger, args[1])
	if err != nil {
		return err
	}
	defer closeFile()

	processes, err := workload.Load(f)
	if err != nil {
		return err
	}
	logger.Info("workload loaded",
		slog.String("path", args[1]),
		slog.Int("processes", len(processes)),
		slog.Int64("total_burst", totalBurst(processes)),
	)

	res, err := scheduler.Run(processes, quantum)
	if err != nil {
		return err
	}
	m, err := metrics.Compute(res.Completed, res.Switches, res.TotalTime, cfg.ContextSwitchOverhead)
	if err != nil {
		return err
	}
	logger.Info("simulation finished",
		slog.Int64("quantum", quantum),
		slog.Int("switches", res.Switches),
		slog.Int64("total_time", res.TotalTime),
		slog.Int64("idle", res.Idle),
	)

	report.Render(w, quantum, metrics.Rows(res.Completed), res.Trace, m)
	return nil
}

func openProcessingFile(logger *slog.Logger, path string) (*os.File, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%v: error opening scheduling file", err)
	}
	closeFn := func() {
		if err := f.Close(); err != nil {
			logger.Error("error closing scheduling file", util.ErrAttr(err))
		}
	}

	return f, closeFn, nil
}

func totalBurst(processes []*process.Process) int64 {
	bursts := make([]int64, len(processes))
	for i, p := range processes {
		bursts[i] = p.Burst
	}
	return util.Sum(bursts)
}
