package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Logistics holds the remote logistics API configuration.
	Logistics LogisticsConfig `mapstructure:",squash"`
	// Redis holds the session store connection.
	Redis RedisConfig `mapstructure:",squash"`
	// Session holds the browser session settings.
	Session SessionConfig `mapstructure:",squash"`
	// Proxy holds the optional outbound proxy used for upstream calls.
	Proxy ProxyConfig `mapstructure:",squash"`
	// Workflow holds the degraded-mode switches of the order workflow.
	Workflow WorkflowConfig `mapstructure:",squash"`
	// Events holds the optional event publication settings.
	Events EventsConfig `mapstructure:",squash"`
}

// LogisticsConfig holds the connection details of the pricing/logistics REST API.
type LogisticsConfig struct {
	// URL is the base URL of the logistics API, e.g. https://host/NewLogistic/v2.
	URL string `mapstructure:"LOGISTICS_API_URL" required:"true"`
	// TimeoutSeconds bounds every upstream request.
	TimeoutSeconds int `mapstructure:"LOGISTICS_TIMEOUT_SECONDS" default:"15"`
}

// Timeout returns the upstream timeout as a duration.
func (c LogisticsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig holds the Redis connection URL.
type RedisConfig struct {
	// URL should be in the format: redis://[:password@]host[:port][/database]
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// SessionConfig holds the browser session settings.
type SessionConfig struct {
	// CookieName is the name of the signed session cookie.
	CookieName string `mapstructure:"SESSION_COOKIE_NAME" default:"portal_session"`
	// Secret signs the session cookie.
	Secret string `mapstructure:"SESSION_SECRET" required:"true"`
	// TTLSeconds is the lifetime of a stored session.
	TTLSeconds int `mapstructure:"SESSION_TTL_SECONDS" default:"86400"`
	// PendingTTLSeconds is how long a pending offer selection waits for login.
	PendingTTLSeconds int `mapstructure:"PENDING_SELECTION_TTL_SECONDS" default:"1800"`
}

// TTL returns the session lifetime as a duration.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// PendingTTL returns the pending selection lifetime as a duration.
func (c SessionConfig) PendingTTL() time.Duration {
	return time.Duration(c.PendingTTLSeconds) * time.Second
}

// ProxyConfig holds the outbound proxy used for logistics API calls.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED"`
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// WorkflowConfig holds the degraded-mode switches.
type WorkflowConfig struct {
	// QuoteFallback substitutes the demo offer set when the estimate fails or is empty.
	QuoteFallback bool `mapstructure:"QUOTE_FALLBACK_ENABLED" default:"true"`
	// AllowFallbackOrders lets demo offers reach order submission.
	AllowFallbackOrders bool `mapstructure:"ALLOW_FALLBACK_ORDERS" default:"false"`
	// SimulatePlaceholderPickup confirms pickups locally for placeholder waybills the server rejects.
	SimulatePlaceholderPickup bool `mapstructure:"PICKUP_SIMULATE_PLACEHOLDER" default:"true"`
}

// EventsConfig holds the Kafka settings. Empty brokers disable publication.
type EventsConfig struct {
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	Topic        string `mapstructure:"KAFKA_TOPIC" default:"parcel.events"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind env %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
