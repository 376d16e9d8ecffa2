// Package config loads the client configuration from a .env file and the
// process environment. Environment values always win over .env entries.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jdai1/codenames/internal/models"
)

// KnownModels are the model names the engine is known to accept. Seat
// configuration is not restricted to this set; unknown names are passed
// through to the engine with a warning, since the engine's roster may be
// newer than this build.
var KnownModels = []string{
	"gpt-5",
	"claude-sonnet",
	"gemini/gemini-2.5-pro",
	"grok-4",
	"kimi-k2-thinking",
	"zai-4.6",
	"openai oss",
	"qwen 3 235b",
	"deepseek v3.2-exp-thinking",
	"llama 3.1 405b",
}

// IsKnownModel reports whether name is in the known engine roster.
func IsKnownModel(name string) bool {
	for _, m := range KnownModels {
		if m == name {
			return true
		}
	}
	return false
}

// Config is the fully resolved client configuration.
type Config struct {
	EngineURL     string
	EngineTimeout time.Duration // applies to plain calls only, never to AI streams
	LogLevel      logrus.Level
	BoardLanguage string
	BoardSize     int
	NOperatives   int
	Seats         models.Seats

	// ClientID identifies this client run in logs. Fresh per process.
	ClientID string
}

// Load reads .env (when present) and the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		EngineURL:     envOr("ENGINE_URL", "http://localhost:8080"),
		BoardLanguage: envOr("BOARD_LANGUAGE", "english"),
		ClientID:      uuid.NewString(),
	}

	timeoutSec, err := envInt("ENGINE_TIMEOUT_SEC", 15)
	if err != nil {
		return nil, err
	}
	if timeoutSec <= 0 {
		return nil, fmt.Errorf("ENGINE_TIMEOUT_SEC must be positive, got %d", timeoutSec)
	}
	cfg.EngineTimeout = time.Duration(timeoutSec) * time.Second

	if cfg.BoardSize, err = envInt("BOARD_SIZE", 25); err != nil {
		return nil, err
	}
	if cfg.BoardSize <= 0 {
		return nil, fmt.Errorf("BOARD_SIZE must be positive, got %d", cfg.BoardSize)
	}

	if cfg.NOperatives, err = envInt("N_OPERATIVES", 3); err != nil {
		return nil, err
	}
	if cfg.NOperatives < 1 {
		return nil, fmt.Errorf("N_OPERATIVES must be at least 1, got %d", cfg.NOperatives)
	}

	cfg.LogLevel, err = logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	cfg.Seats = models.Seats{
		RedSpymaster:  seatController("RED_SPYMASTER"),
		RedOperative:  seatController("RED_OPERATIVE"),
		BlueSpymaster: seatController("BLUE_SPYMASTER"),
		BlueOperative: seatController("BLUE_OPERATIVE"),
	}
	return cfg, nil
}

// seatController parses one seat variable, warning on model names outside
// the known roster.
func seatController(name string) models.Controller {
	ctrl := models.ParseController(os.Getenv(name))
	if ctrl.Kind == models.ControllerModel && !IsKnownModel(ctrl.Model) {
		logrus.Warnf("%s: model %q is not in the known roster, passing through", name, ctrl.Model)
	}
	return ctrl
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return n, nil
}
