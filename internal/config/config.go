package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
	FollowUp FollowUpConfig `mapstructure:"follow_up"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=0,lte=31"`
}

// LLMConfig contains settings for the external text-generation collaborator.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName         string `mapstructure:"model_name"     validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries"        validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"     validate:"gt=0"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount          int `mapstructure:"worker_count"            validate:"required,gt=0"`
	QueueSize            int `mapstructure:"queue_size"              validate:"required,gt=0"`
	StuckTaskAgeMinutes  int `mapstructure:"stuck_task_age_minutes"  validate:"gte=0"`
	StuckCheckIntMinutes int `mapstructure:"stuck_check_interval_minutes" validate:"gte=0"`
}

// FollowUpConfig contains settings for the daily follow-up reminder sweep.
type FollowUpConfig struct {
	// Enabled turns the cron sweep on. Off by default so tests and one-off
	// tooling don't send reminder emails.
	Enabled bool `mapstructure:"enabled"`

	// Schedule is a cron expression; defaults to 09:00 daily.
	Schedule string `mapstructure:"schedule"`

	// StaleAfterDays is how old an unanswered application must be before a
	// reminder goes out.
	StaleAfterDays int `mapstructure:"stale_after_days" validate:"gte=0"`

	// SMTP settings for the reminder mailer.
	SMTPAddr string `mapstructure:"smtp_addr"`
	SMTPFrom string `mapstructure:"smtp_from"`
}
