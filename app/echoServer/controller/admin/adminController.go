package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Vaibhavp809/libsync-sub001/config"
	cs "github.com/Vaibhavp809/libsync-sub001/service/circulation"
)

type Controller struct {
	Policy   *config.Policy
	Reminder cs.Reminder
	Log      *slog.Logger
}

// GET /v1/admin/policy
func (h *Controller) GetPolicy(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Policy.Snapshot())
}

// PolicyReq carries a partial policy update; omitted fields keep their value.
// swagger:model PolicyReq
type PolicyReq struct {
	LoanDurationDays *int   `json:"loan_duration_days,omitempty"`
	FinePerDay       *int64 `json:"fine_per_day,omitempty"`
	MaxActiveLoans   *int   `json:"max_active_loans,omitempty"`
}

// PUT /v1/admin/policy
func (h *Controller) UpdatePolicy(c echo.Context) error {
	var req PolicyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	h.Policy.Update(req.LoanDurationDays, req.FinePerDay, req.MaxActiveLoans)
	snap := h.Policy.Snapshot()
	h.Log.Info("policy updated",
		"loan_duration_days", snap.LoanDurationDays,
		"fine_per_day", snap.FinePerDay,
		"max_active_loans", snap.MaxActiveLoans,
	)
	return c.JSON(http.StatusOK, snap)
}

// POST /v1/admin/reminders?within_days=3
func (h *Controller) SendReminders(c echo.Context) error {
	within := 3
	if raw := c.QueryParam("within_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "within_days must be a non-negative integer"})
		}
		within = n
	}
	sent, err := h.Reminder.RemindDueSoon(c.Request().Context(), within)
	if err != nil {
		h.Log.Error("reminder sweep", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": sent})
}
