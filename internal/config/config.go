// Package config provides configuration loading and validation for the
// sakurabot service. Values come from defaults, an optional config.yaml, and
// BOT_-prefixed environment variables, in that order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config defines all runtime configuration. The required fields carry the
// platform and backend credentials; startup fails when any of them is absent.
type Config struct {
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogJSON  bool   `koanf:"log_json"`

	ListenAddr string `koanf:"listen_addr" validate:"required"`

	LineChannelSecret string `koanf:"line_channel_secret" validate:"required"`
	LineChannelToken  string `koanf:"line_channel_token"  validate:"required"`
	PushRecipientID   string `koanf:"push_recipient_id"   validate:"required"`

	GeminiAPIKey      string        `koanf:"gemini_api_key"     validate:"required"`
	GeminiModel       string        `koanf:"gemini_model"       validate:"required"`
	GeminiTemperature float32       `koanf:"gemini_temperature" validate:"min=0,max=2"`
	GeminiTimeout     time.Duration `koanf:"gemini_timeout"     validate:"min=1s,max=10m"`

	PersonaPath     string `koanf:"persona_path"      validate:"required"`
	ReplyLengthHint string `koanf:"reply_length_hint" validate:"required"`
	MoodLengthHint  string `koanf:"mood_length_hint"  validate:"required"`
	FallbackMessage string `koanf:"fallback_message"  validate:"required"`
	HistoryCap      int    `koanf:"history_cap"       validate:"min=1,max=50"`

	SendTimeout time.Duration `koanf:"send_timeout" validate:"min=1s,max=1m"`

	Timezone        string `koanf:"timezone"         validate:"required"`
	ProactiveCron   string `koanf:"proactive_cron"   validate:"required"`
	MaintenanceCron string `koanf:"maintenance_cron" validate:"required"`

	LotteryQuietFrom     int   `koanf:"lottery_quiet_from"     validate:"min=0,max=23"`
	LotteryQuietThrough  int   `koanf:"lottery_quiet_through"  validate:"min=0,max=23"`
	LotteryHighHours     []int `koanf:"lottery_high_hours"     validate:"dive,min=0,max=23"`
	LotteryHighThreshold int   `koanf:"lottery_high_threshold" validate:"min=0,max=100"`
	LotteryBaseThreshold int   `koanf:"lottery_base_threshold" validate:"min=0,max=100"`

	TasksQueuePath string `koanf:"tasks_queue_path" validate:"required"`
	DeferredURL    string `koanf:"deferred_url"     validate:"required,url"`

	DBPath string `koanf:"db_path" validate:"required"`

	loc *time.Location
}

// Location returns the timezone the lottery and mood prompts run in.
func (c *Config) Location() *time.Location {
	return c.loc
}

// Load reads configuration from configPath (missing file falls back to
// defaults), overlays BOT_* environment variables, and validates the result.
func Load(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	k := koanf.New(".")
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load configuration file %s: %w", configPath, err)
		}
		slog.Info("configuration file not found, using defaults and environment", "path", configPath)
	}

	if err := k.Load(env.Provider("BOT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "BOT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment configuration: %w", err)
	}

	if err := k.Unmarshal("", config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", config.Timezone, err)
	}
	config.loc = loc

	slog.Info("configuration loaded",
		"gemini_model", config.GeminiModel,
		"timezone", config.Timezone,
		"history_cap", config.HistoryCap,
		"db_path", config.DBPath)
	return config, nil
}

func setDefaults(config *Config) {
	config.LogLevel = "info"
	config.LogJSON = true

	config.ListenAddr = ":8080"

	config.GeminiModel = "gemini-1.5-pro"
	config.GeminiTemperature = 1.0
	config.GeminiTimeout = 30 * time.Second

	config.PersonaPath = "persona.txt"
	config.ReplyLengthHint = "Keep your reply to three to five short sentences."
	config.MoodLengthHint = "Reply with a single short sentence."
	config.FallbackMessage = "Sorry, I'm a little busy right now. Talk to you later!"
	config.HistoryCap = 2

	config.SendTimeout = 10 * time.Second

	config.Timezone = "Asia/Tokyo"
	config.ProactiveCron = "0 * * * *"
	config.MaintenanceCron = "30 4 * * *"

	config.LotteryQuietFrom = 0
	config.LotteryQuietThrough = 7
	config.LotteryHighHours = []int{9, 12, 15, 19, 20}
	config.LotteryHighThreshold = 80
	config.LotteryBaseThreshold = 10

	config.DBPath = "storage.db"
}
