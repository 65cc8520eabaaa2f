package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. FITCLUB_ADDR.
const Prefix = "FITCLUB"

// App holds the process configuration.
type App struct {
	Addr     string `envconfig:"ADDR" default:":8080"`
	Env      string `envconfig:"ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// DB
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN       string `envconfig:"DB_DSN" default:"fitclub.db"`
	SlowQueryMs int    `envconfig:"SLOW_QUERY_MS" default:"50"`

	// HTTP
	JWTSecret   string   `envconfig:"JWT_SECRET"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`

	// Integrations; empty values select the no-op adapters
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"fitclub.events"`
	ResendKey    string `envconfig:"RESEND_KEY"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"Fitclub <noreply@fitclub.local>"`

	// Background sweeps
	SweepInterval      time.Duration `envconfig:"SWEEP_INTERVAL" default:"15m"`
	AutoCheckoutHours  int           `envconfig:"AUTO_CHECKOUT_HOURS" default:"12"`
	CardExpiryInterval time.Duration `envconfig:"CARD_EXPIRY_INTERVAL" default:"1h"`
}

// IsProduction reports whether the process runs with FITCLUB_ENV=production.
func (a App) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// Validate checks cross-field rules envconfig cannot express.
// POST: Returns error if the configuration cannot start a server
func (a App) Validate() error {
	if a.IsProduction() && a.JWTSecret == "" {
		return errors.New("FITCLUB_JWT_SECRET is required in production")
	}
	if a.DBDriver != "sqlite" && a.DBDriver != "postgres" {
		return fmt.Errorf("FITCLUB_DB_DRIVER must be 'sqlite' or 'postgres', got %q", a.DBDriver)
	}
	if a.AutoCheckoutHours <= 0 {
		return errors.New("FITCLUB_AUTO_CHECKOUT_HOURS must be greater than zero")
	}
	if a.SweepInterval <= 0 || a.CardExpiryInterval <= 0 {
		return errors.New("sweep intervals must be greater than zero")
	}
	return nil
}

// Load reads an optional .env file, then the environment.
// PRE: none
// POST: Returns a validated App or the first error
func Load(envFiles ...string) (App, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return App{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var c App
	if err := envconfig.Process(Prefix, &c); err != nil {
		return App{}, err
	}
	return c, c.Validate()
}
