package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/admin"
	"github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/book"
	"github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/circulation"
	"github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/stock"
	"github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/student"
	"github.com/Vaibhavp809/libsync-sub001/app/echoServer/jwtx"
)

type C struct {
	Book        *book.Controller
	Circulation *circulation.Controller
	Stock       *stock.Controller
	Student     *student.Controller
	Admin       *admin.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Everything circulates through the facade; all routes require a token
	// issued by the identity service.
	api := e.Group("/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	api.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := jwtx.ActorID(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("actor_id", actor)
			return next(ctx)
		}
	})

	// Catalog
	api.GET("/books", c.Book.List)
	api.GET("/books/:id", c.Book.Detail)
	api.GET("/books/by-accession/:key", c.Book.ByAccession)
	api.POST("/books", c.Book.Create)

	// Circulation
	api.POST("/loans", c.Circulation.Issue)
	api.POST("/loans/:id/return", c.Circulation.Return)
	api.GET("/loans/:id/fine", c.Circulation.CurrentFine)
	api.POST("/returns", c.Circulation.ReturnByAccession)
	api.POST("/reservations", c.Circulation.Reserve)
	api.POST("/reservations/:id/cancel", c.Circulation.Cancel)
	api.POST("/reservations/:id/fulfill", c.Circulation.Fulfill)

	// Directory
	api.GET("/students/:id", c.Student.Detail)
	api.GET("/students/:id/loans", c.Circulation.History)

	// Stock reconciliation
	api.POST("/stock/reconcile", c.Stock.Reconcile)
	api.POST("/stock/verify", c.Stock.VerifySingle)
	api.GET("/stock/anomalies", c.Circulation.Anomalies)

	// Admin
	api.GET("/admin/policy", c.Admin.GetPolicy)
	api.PUT("/admin/policy", c.Admin.UpdatePolicy)
	api.POST("/admin/reminders", c.Admin.SendReminders)
}
