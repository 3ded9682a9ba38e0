// Package main library circulation API.
//
// @title           Library Circulation API
// @version         1.0
// @description     Circulation & inventory engine (books, loans, reservations, stock checks).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Vaibhavp809/libsync-sub001/app/echoServer"
	adminctrl "github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/admin"
	bookctrl "github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/book"
	circctrl "github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/circulation"
	stockctrl "github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/stock"
	studentctrl "github.com/Vaibhavp809/libsync-sub001/app/echoServer/controller/student"
	"github.com/Vaibhavp809/libsync-sub001/app/echoServer/validation"
	"github.com/Vaibhavp809/libsync-sub001/config"
	bookrepo "github.com/Vaibhavp809/libsync-sub001/repository/book"
	circrepo "github.com/Vaibhavp809/libsync-sub001/repository/circulation"
	notifyrepo "github.com/Vaibhavp809/libsync-sub001/repository/notify"
	studentrepo "github.com/Vaibhavp809/libsync-sub001/repository/student"
	circsvc "github.com/Vaibhavp809/libsync-sub001/service/circulation"
	inventorysvc "github.com/Vaibhavp809/libsync-sub001/service/inventory"
	stocksvc "github.com/Vaibhavp809/libsync-sub001/service/stock"
	"github.com/Vaibhavp809/libsync-sub001/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB on the pgx driver
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// hot-reloadable circulation policy
	policy := config.NewPolicy(cfg.LoanDurationDays, cfg.FinePerDay, cfg.MaxActiveLoans)

	// notification capability
	var notifier notifyrepo.Repo
	if cfg.NotifyURL != "" {
		notifier = notifyrepo.NewHTTP(cfg.NotifyURL)
	} else {
		notifier = notifyrepo.NewNoop()
		log.Warn("no notify webhook configured, notices are dropped")
	}

	// repos
	br := bookrepo.New(db)
	cr := circrepo.New(db)
	sr := studentrepo.New(db)

	// services
	is := inventorysvc.New(br)
	cs := circsvc.New(cr, notifier, policy, log)
	rem := circsvc.NewReminder(cr, notifier, log)
	ss := stocksvc.New(is)

	// controllers
	v := validator.New()
	bookC := &bookctrl.Controller{Svc: is, V: v, Log: log}
	circC := &circctrl.Controller{Svc: cs, V: v, Log: log}
	stockC := &stockctrl.Controller{Svc: ss, V: v, Log: log}
	studentC := &studentctrl.Controller{Dir: sr, Log: log}
	adminC := &adminctrl.Controller{Policy: policy, Reminder: rem, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Book:        bookC,
		Circulation: circC,
		Stock:       stockC,
		Student:     studentC,
		Admin:       adminC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
