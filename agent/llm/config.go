package llm

import (
	"fmt"
	"strings"

	contractx "github.com/jirayus/storeline-service-agent/agent/contract"
)

// StepConfig is the explicit per-step decoding configuration that replaces
// call-site constants: which model backs the step and how deterministic the
// decoding should be.
type StepConfig struct {
	Model       string
	Temperature float64
}

// Config selects a model and temperature for every pipeline step. Extraction
// and response default to deterministic decoding; moderation ignores
// temperature entirely (the classifier replies with a bare verdict).
type Config struct {
	ModerationModel string `envconfig:"MODERATION_MODEL" split_words:"true" default:"llama-guard3"`
	ExtractionModel string `envconfig:"EXTRACTION_MODEL" split_words:"true" default:"llama3.2"`
	ResponseModel   string `envconfig:"RESPONSE_MODEL" split_words:"true" default:"llama3.2"`

	ExtractionTemperature float64 `envconfig:"EXTRACTION_TEMPERATURE" split_words:"true" default:"0"`
	ResponseTemperature   float64 `envconfig:"RESPONSE_TEMPERATURE" split_words:"true" default:"0"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ModerationModel) == "" {
		return fmt.Errorf("%w: moderation model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.ExtractionModel) == "" {
		return fmt.Errorf("%w: extraction model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.ResponseModel) == "" {
		return fmt.Errorf("%w: response model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) Moderation() StepConfig {
	return StepConfig{Model: strings.TrimSpace(c.ModerationModel)}
}

func (c Config) Extraction() StepConfig {
	return StepConfig{
		Model:       strings.TrimSpace(c.ExtractionModel),
		Temperature: c.ExtractionTemperature,
	}
}

func (c Config) Response() StepConfig {
	return StepConfig{
		Model:       strings.TrimSpace(c.ResponseModel),
		Temperature: c.ResponseTemperature,
	}
}
