package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Vaibhavp809/libsync-sub001/model"
	inventorysvc "github.com/Vaibhavp809/libsync-sub001/service/inventory"
)

type Controller struct {
	Svc inventorysvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/books
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	id, err := h.Svc.Create(c.Request().Context(), req.Accession, req.Title, req.Author, req.Category)
	if err != nil {
		switch {
		case errors.Is(err, inventorysvc.ErrBadInput), errors.Is(err, inventorysvc.ErrBadAccession):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case errors.Is(err, inventorysvc.ErrAccessionTaken):
			return c.JSON(http.StatusConflict, echo.Map{"message": "accession already cataloged"})
		default:
			h.Log.Error("book create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// GET /v1/books
func (h *Controller) List(c echo.Context) error {
	books, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": books})
}

// GET /v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, inventorysvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		}
		h.Log.Error("book detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/books/by-accession/:key
func (h *Controller) ByAccession(c echo.Context) error {
	b, err := h.Svc.ByAccession(c.Request().Context(), c.Param("key"))
	if err != nil {
		switch {
		case errors.Is(err, inventorysvc.ErrBadAccession):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case errors.Is(err, inventorysvc.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "book not found"})
		default:
			h.Log.Error("book by accession", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, b)
}
