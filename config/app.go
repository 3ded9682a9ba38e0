package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	NotifyURL   string `env:"NOTIFY_WEBHOOK_URL"`
	Env         string `env:"APP_ENV" default:"dev"`

	// Initial circulation policy; mutable at runtime through Policy.
	LoanDurationDays int   `env:"LOAN_DURATION_DAYS" default:"14"`
	FinePerDay       int64 `env:"FINE_PER_DAY" default:"10"`
	MaxActiveLoans   int   `env:"MAX_ACTIVE_LOANS" default:"4"`
}
