package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log      Log      `yaml:"log"`
	Server   Server   `yaml:"server"`
	OpenAI   OpenAI   `yaml:"openai"`
	Storage  Storage  `yaml:"storage"`
	Analysis Analysis `yaml:"analysis"`
	Chat     Chat     `yaml:"chat"`
}

type OpenAI struct {
	Vision ModelConfig `yaml:"vision" validate:"required"`
	Reply  ModelConfig `yaml:"reply" validate:"required"`
}

type ModelConfig struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://api.openai.com/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"gpt-4o-mini" validate:"required"`
}

type Server struct {
	// HTTP listen port
	Port int `yaml:"port" example:"8080"`
}

type Storage struct {
	// S3-compatible endpoint
	Endpoint string `yaml:"endpoint" example:"localhost:9000" validate:"required"`
	// Bucket region
	Region string `yaml:"region" example:"us-east-1"`
	// Bucket for uploaded property photos
	Bucket string `yaml:"bucket" example:"proplens-images" validate:"required"`
	// Access key
	AccessKey string `yaml:"access_key" validate:"required"`
	// Secret key
	SecretKey string `yaml:"secret_key" validate:"required"`
	// Use TLS when talking to the endpoint
	UseSSL bool `yaml:"use_ssl" example:"false"`
}

type Analysis struct {
	// Confidence at or above which an issue is tiered high
	HighThreshold float64 `yaml:"high_threshold" example:"0.75"`
	// Confidence at or above which an issue is tiered medium
	MediumThreshold float64 `yaml:"medium_threshold" example:"0.4"`
	// Merged detections below this confidence are dropped
	MinConfidence float64 `yaml:"min_confidence" example:"0.2"`
}

type Chat struct {
	// How many recent transcript turns are fed back into the model
	HistoryWindow int `yaml:"history_window" example:"10"`
	// Retention of sessions and analysis versions is decided by an external
	// sweeper; the core keeps everything it has seen. Zero means no hint.
	Retention time.Duration `yaml:"retention" example:"720h"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Port == 0 {
		result.Server.Port = 8080
	}
	if result.Analysis.HighThreshold == 0 {
		result.Analysis.HighThreshold = 0.75
	}
	if result.Analysis.MediumThreshold == 0 {
		result.Analysis.MediumThreshold = 0.4
	}
	if result.Analysis.MinConfidence == 0 {
		result.Analysis.MinConfidence = 0.2
	}
	if result.Chat.HistoryWindow == 0 {
		result.Chat.HistoryWindow = 10
	}

	if result.Analysis.MediumThreshold > result.Analysis.HighThreshold {
		return nil, oops.Errorf("medium_threshold must not exceed high_threshold")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
