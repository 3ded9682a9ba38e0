package stock

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Vaibhavp809/libsync-sub001/model"
	stocksvc "github.com/Vaibhavp809/libsync-sub001/service/stock"
)

type Controller struct {
	Svc stocksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// ReconcileReq represents one stock-check upload, already flattened to raw
// string pairs by the spreadsheet normalizer.
// swagger:model ReconcileReq
type ReconcileReq struct {
	Entries []model.StockEntryReq `json:"entries" validate:"required,min=1,dive"`
}

// POST /v1/stock/reconcile
func (h *Controller) Reconcile(c echo.Context) error {
	var req ReconcileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	sum, err := h.Svc.Reconcile(c.Request().Context(), req.Entries)
	if err != nil {
		h.Log.Error("stock reconcile", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	h.Log.Info("stock reconcile",
		"run_id", sum.RunID,
		"updated", sum.Updated,
		"not_found", sum.NotFound,
		"errors", sum.Errors,
	)
	return c.JSON(http.StatusOK, sum)
}

// POST /v1/stock/verify
func (h *Controller) VerifySingle(c echo.Context) error {
	var req model.StockEntryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	e, err := h.Svc.VerifySingle(c.Request().Context(), req.Accession, req.Status)
	if err != nil {
		h.Log.Error("stock verify", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	status := http.StatusOK
	if e.Outcome == model.OutcomeNotFound {
		status = http.StatusNotFound
	}
	return c.JSON(status, e)
}
