package runs

import (
	"errors"

	"catalog-sync/core/history"
	"catalog-sync/core/logger"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const maxListLimit = 200

// Handler handles HTTP requests for reconciliation runs.
type Handler struct {
	service      *Service
	allowTrigger bool
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, allowTrigger bool) *Handler {
	return &Handler{service: service, allowTrigger: allowTrigger}
}

// RegisterRoutes registers the run routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Get("/", h.HandleList)
	group.Post("/:mode", h.HandleTrigger)
}

// HandleList lists recent runs.
// @Summary List Runs
// @Description Returns the most recent reconciliation runs, newest first.
// @Tags runs
// @Produce json
// @Param mode query string false "Filter by mode (inventory or prices)"
// @Param limit query int false "Maximum number of runs (default 20, max 200)"
// @Success 200 {array} history.RunRecord
// @Failure 503 {object} map[string]string "History disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	limit := utils.Clamp(utils.IntOr(c.Query("limit"), history.DefaultLimit), 1, maxListLimit)

	records, err := h.service.Recent(c.UserContext(), c.Query("mode"), limit)
	if errors.Is(err, history.ErrDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if records == nil {
		records = []history.RunRecord{}
	}
	return c.JSON(records)
}

// HandleTrigger runs a reconciliation and returns its report.
// @Summary Trigger Run
// @Description Runs an inventory or price reconciliation to completion. Concurrent triggers of the same mode share one run.
// @Tags runs
// @Produce json
// @Param mode path string true "inventory or prices"
// @Param dry_run query boolean false "Compute mutations without sending them"
// @Success 200 {object} reconcile.RunReport
// @Failure 400 {object} map[string]string "Unknown mode"
// @Failure 403 {object} map[string]string "Triggering disabled"
// @Failure 502 {object} map[string]string "Vendor feed unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs/{mode} [post]
func (h *Handler) HandleTrigger(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if !h.allowTrigger {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "run triggering is disabled"})
	}

	mode, ok := reconcile.ParseMode(c.Params("mode"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown mode: " + c.Params("mode")})
	}
	dryRun := utils.BoolOr(c.Query("dry_run"), false)

	l.Info("Run triggered", zap.String("mode", string(mode)), zap.Bool("dry_run", dryRun))
	report, err := h.service.Run(c.UserContext(), mode, Options{DryRun: dryRun})
	if err != nil {
		l.Error("Run failed", zap.String("mode", string(mode)), zap.Error(err))
		status := fiber.StatusInternalServerError
		if IsTransferError(err) {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
