package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Task       TaskConfig       `mapstructure:"task"       validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gtfield=TokenLifetimeMinutes"`
}

// LLMConfig contains the settings of the remote problem generator.
// An empty GeminiAPIKey disables remote generation; the local generators
// then serve every request.
type LLMConfig struct {
	GeminiAPIKey          string  `mapstructure:"gemini_api_key"`
	ModelName             string  `mapstructure:"model_name"              validate:"required"`
	PromptTemplatePath    string  `mapstructure:"prompt_template_path"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gt=0,lte=120"`
	Temperature           float64 `mapstructure:"temperature"             validate:"gte=0,lte=2"`
}

// GenerationConfig tunes the problem generators.
type GenerationConfig struct {
	// MaxCount is the largest batch a single request may ask for.
	MaxCount int `mapstructure:"max_count" validate:"required,gt=0,lte=100"`

	// AgePolicy decides what happens to ages outside 6-12:
	// "clamp" moves them to the nearest supported age, "reject" fails the request.
	AgePolicy string `mapstructure:"age_policy" validate:"required,oneof=clamp reject"`

	// DedupWindow is the number of word problem hashes remembered before the
	// window is cleared.
	DedupWindow int `mapstructure:"dedup_window" validate:"required,gt=0"`
}

// TaskConfig configures the background task runner.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size"   validate:"required,gt=0"`
}
