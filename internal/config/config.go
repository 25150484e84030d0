package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Salon details used in confirmations and emails
	SalonName       string
	SalonTimezone   string
	SalonPhone      string
	SalonEmail      string
	SalonAddress    string
	SalonInboxEmail string

	// Wizard sessions
	SessionStore  string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Simulated payment processing
	PaymentDelay time.Duration

	// Confirmation notifications
	NotifyTransport   string
	NotifyTimeout     time.Duration
	NotifyQueueURL    string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string

	// Confirmation export archive
	ConfirmationBucket string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SalonName:       getEnv("SALON_NAME", "Luxe Salon"),
		SalonTimezone:   getEnv("SALON_TIMEZONE", "America/New_York"),
		SalonPhone:      getEnv("SALON_PHONE", "+1 (555) 123-4567"),
		SalonEmail:      getEnv("SALON_EMAIL", "info@luxesalon.com"),
		SalonAddress:    getEnv("SALON_ADDRESS", "123 Beauty Street, NY 10001"),
		SalonInboxEmail: getEnv("SALON_INBOX_EMAIL", "booking@luxesalon.com"),

		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		PaymentDelay: getEnvAsDuration("PAYMENT_DELAY", 2*time.Second),

		NotifyTransport:   strings.ToLower(strings.TrimSpace(getEnv("NOTIFY_TRANSPORT", "stub"))),
		NotifyTimeout:     getEnvAsDuration("NOTIFY_TIMEOUT", 15*time.Second),
		NotifyQueueURL:    getEnv("NOTIFY_QUEUE_URL", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Luxe Salon"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),

		ConfirmationBucket: getEnv("CONFIRMATION_BUCKET", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// UsesAWS reports whether any configured integration needs an AWS client.
func (c *Config) UsesAWS() bool {
	return c.NotifyTransport == "ses" || c.NotifyTransport == "sqs" || c.ConfirmationBucket != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
