package circulation

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Vaibhavp809/libsync-sub001/model"
	cs "github.com/Vaibhavp809/libsync-sub001/service/circulation"
)

type Controller struct {
	Svc cs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// respond maps the error taxonomy onto HTTP. The code and message always name
// the violated rule so the UI can render something actionable.
func (h *Controller) respond(c echo.Context, op string, err error) error {
	kind := cs.KindOf(err)
	body := echo.Map{"code": string(cs.Code(err)), "message": err.Error()}
	switch kind {
	case cs.KindConflict, cs.KindInvalidState:
		return c.JSON(http.StatusConflict, body)
	case cs.KindNotFound:
		return c.JSON(http.StatusNotFound, body)
	case cs.KindValidation:
		return c.JSON(http.StatusBadRequest, body)
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// actor is the authenticated user the middleware extracted; every mutation is
// attributed to it in the audit log.
func actor(c echo.Context) int64 {
	id, _ := c.Get("actor_id").(int64)
	return id
}

func parseDue(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// POST /v1/loans
func (h *Controller) Issue(c echo.Context) error {
	var req model.IssueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	due, ok := parseDue(req.DueDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "due_date must be RFC3339"})
	}

	loan, err := h.Svc.Issue(c.Request().Context(), req.StudentID, req.BookID, due)
	if err != nil {
		return h.respond(c, "loan issue", err)
	}
	h.Log.Info("loan issued", "loan_id", loan.ID, "book_id", loan.BookID, "student_id", loan.StudentID, "actor_id", actor(c))
	return c.JSON(http.StatusCreated, loan)
}

// POST /v1/loans/:id/return
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	out, err := h.Svc.ReturnByLoan(c.Request().Context(), id)
	if err != nil {
		return h.respond(c, "loan return", err)
	}
	h.Log.Info("loan returned", "loan_id", id, "fine", out.Loan.Fine, "book_status", out.BookStatus, "actor_id", actor(c))
	return c.JSON(http.StatusOK, out)
}

// ReturnByAccessionReq represents return-at-the-desk payload
// swagger:model ReturnByAccessionReq
type ReturnByAccessionReq struct {
	Accession string `json:"accession" validate:"required"`
}

// POST /v1/returns
func (h *Controller) ReturnByAccession(c echo.Context) error {
	var req ReturnByAccessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	out, err := h.Svc.ReturnByAccession(c.Request().Context(), req.Accession)
	if err != nil {
		return h.respond(c, "return by accession", err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/loans/:id/fine
func (h *Controller) CurrentFine(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	fine, err := h.Svc.CurrentFine(c.Request().Context(), id)
	if err != nil {
		return h.respond(c, "current fine", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"loan_id": id, "fine": fine})
}

// POST /v1/reservations
func (h *Controller) Reserve(c echo.Context) error {
	var req model.ReserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	rv, err := h.Svc.Reserve(c.Request().Context(), req.StudentID, req.BookID)
	if err != nil {
		return h.respond(c, "reserve", err)
	}
	h.Log.Info("reservation created", "reservation_id", rv.ID, "book_id", rv.BookID, "student_id", rv.StudentID, "actor_id", actor(c))
	return c.JSON(http.StatusCreated, rv)
}

// POST /v1/reservations/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rv, err := h.Svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return h.respond(c, "cancel reservation", err)
	}
	return c.JSON(http.StatusOK, rv)
}

// POST /v1/reservations/:id/fulfill
func (h *Controller) Fulfill(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	due, ok := parseDue(c.QueryParam("due_date"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "due_date must be RFC3339"})
	}
	loan, err := h.Svc.Fulfill(c.Request().Context(), id, due)
	if err != nil {
		return h.respond(c, "fulfill reservation", err)
	}
	return c.JSON(http.StatusCreated, loan)
}

// GET /v1/students/:id/loans
func (h *Controller) History(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rows, err := h.Svc.History(c.Request().Context(), id)
	if err != nil {
		h.Log.Error("loan history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/stock/anomalies
func (h *Controller) Anomalies(c echo.Context) error {
	rows, err := h.Svc.Anomalies(c.Request().Context())
	if err != nil {
		h.Log.Error("anomaly report", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "count": len(rows)})
}
