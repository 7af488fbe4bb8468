package config

import (
	"time"
)

// ExtractorRetryConfig holds the backoff settings for document extraction calls.
// The LLM gateway never retries and does not use it.
type ExtractorRetryConfig struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// GetExtractorRetryConfig returns backoff configuration appropriate for the current environment.
// In test environments, uses much shorter timeouts for faster test execution.
func (c Config) GetExtractorRetryConfig() ExtractorRetryConfig {
	if c.IsTest() {
		return ExtractorRetryConfig{
			MaxElapsedTime:  time.Second,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		}
	}
	return ExtractorRetryConfig{
		MaxElapsedTime:  c.ExtractBackoffMaxElapsedTime,
		InitialInterval: c.ExtractBackoffInitialInterval,
		MaxInterval:     c.ExtractBackoffMaxInterval,
		Multiplier:      c.ExtractBackoffMultiplier,
	}
}
