package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// Identity service
	CrowdURL                string        `validate:"required,url"`
	CrowdAppName            string        `validate:"required"`
	CrowdAppPassword        string        `validate:"required"`
	CrowdTimeout            time.Duration `validate:"gt=0"`
	CrowdInsecureSkipVerify bool

	// End-user password fallback for the CLI
	UserPassword string

	// Metrics
	MetricsEnabled  bool
	MetricsTextfile string `validate:"required_if=MetricsEnabled true"`
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		CrowdURL:                getEnv("CROWD_URL", ""),
		CrowdAppName:            getEnv("CROWD_APP_NAME", ""),
		CrowdAppPassword:        getEnv("CROWD_APP_PASSWORD", ""),
		CrowdTimeout:            getEnvDuration("CROWD_TIMEOUT", 10*time.Second),
		CrowdInsecureSkipVerify: getEnvBool("CROWD_INSECURE_SKIP_VERIFY", false),

		UserPassword: getEnv("CROWD_USER_PASSWORD", ""),

		MetricsEnabled:  getEnvBool("METRICS_ENABLED", false),
		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
	}
}

// envNames maps struct fields to the environment variables that set them,
// so validation errors name what the operator has to change.
var envNames = map[string]string{
	"CrowdURL":         "CROWD_URL",
	"CrowdAppName":     "CROWD_APP_NAME",
	"CrowdAppPassword": "CROWD_APP_PASSWORD",
	"CrowdTimeout":     "CROWD_TIMEOUT",
	"MetricsTextfile":  "METRICS_TEXTFILE",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the identity service settings are usable
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := envNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", name))
		case "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required when METRICS_ENABLED=true", name))
		case "url":
			msgs = append(msgs, fmt.Sprintf("invalid %s value: %q", name, fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("invalid %s value: %v", name, fe.Value()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
