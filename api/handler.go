package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/vinhtrinh326/prrsched/config"
	"github.com/vinhtrinh326/prrsched/internal/metrics"
	"github.com/vinhtrinh326/prrsched/internal/process"
	"github.com/vinhtrinh326/prrsched/internal/scheduler"
	"github.com/vinhtrinh326/prrsched/internal/util"
)

var ErrWorkloadTooLarge = errors.New("workload too large")

type SchedulerHandler interface {
	Schedule(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type SchedulerHandlerImpl struct {
	config *config.SchedulerConfig
	logger *slog.Logger
}

func NewSchedulerHandlerImpl(config *config.SchedulerConfig, logger *slog.Logger) *SchedulerHandlerImpl {
	return &SchedulerHandlerImpl{config: config, logger: logger}
}

// NewApp wires the handler into a fiber app under /api/v1.
func NewApp(h SchedulerHandler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	api := app.Group("/api")

	v1 := api.Group("/v1")
	{
		v1.Get("/health", h.Health)
		v1.Post("/schedule", h.Schedule)
	}
	return app
}

func (s *SchedulerHandlerImpl) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

func (s *SchedulerHandlerImpl) Schedule(ctx *fiber.Ctx) error {
	var request ScheduleRequest
	if err := ctx.BodyParser(&request); err != nil {
		s.logger.Warn("invalid request format", util.ErrAttr(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request format",
		})
	}

	quantum := request.Quantum.OrElse(s.config.TimeQuantum)
	overhead := request.Overhead.OrElse(s.config.ContextSwitchOverhead)

	processes := request.toProcesses()
	dispatches, err := scheduler.Dispatches(processes, quantum)
	if err != nil {
		return s.fail(ctx, err)
	}
	if dispatches > s.config.MaxDispatches {
		return s.fail(ctx, fmt.Errorf("%w: %d dispatches exceed the limit of %d",
			ErrWorkloadTooLarge, dispatches, s.config.MaxDispatches))
	}

	res, err := scheduler.Run(processes, quantum)
	if err != nil {
		return s.fail(ctx, err)
	}
	m, err := metrics.Compute(res.Completed, res.Switches, res.TotalTime, overhead)
	if err != nil {
		return s.fail(ctx, err)
	}

	s.logger.Info("schedule computed",
		slog.Int("processes", len(res.Completed)),
		slog.Int64("quantum", quantum),
		slog.Int("switches", res.Switches),
		slog.Int64("total_time", res.TotalTime),
	)

	return ctx.JSON(ScheduleResponse{
		Quantum:   quantum,
		Overhead:  overhead,
		TotalTime: res.TotalTime,
		IdleTime:  res.Idle,
		Processes: metrics.Rows(res.Completed),
		Trace:     res.Trace,
		Metrics:   m,
	})
}

func (s *SchedulerHandlerImpl) fail(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, process.ErrInvalidInput) ||
		errors.Is(err, scheduler.ErrInvalidQuantum) ||
		errors.Is(err, metrics.ErrEmptyWorkload) ||
		errors.Is(err, ErrWorkloadTooLarge) {
		status = fiber.StatusBadRequest
	}
	s.logger.Warn("can not process request", util.ErrAttr(err))
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
