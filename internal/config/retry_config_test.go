package config

import (
	"testing"
	"time"
)

func TestConfig_GetExtractorRetryConfig_MapsFields(t *testing.T) {
	cfg := Config{
		AppEnv:                        "prod",
		ExtractBackoffMaxElapsedTime:  40 * time.Second,
		ExtractBackoffInitialInterval: time.Second,
		ExtractBackoffMaxInterval:     8 * time.Second,
		ExtractBackoffMultiplier:      1.5,
	}

	rc := cfg.GetExtractorRetryConfig()

	if rc.MaxElapsedTime != cfg.ExtractBackoffMaxElapsedTime {
		t.Fatalf("MaxElapsedTime = %v, want %v", rc.MaxElapsedTime, cfg.ExtractBackoffMaxElapsedTime)
	}
	if rc.InitialInterval != cfg.ExtractBackoffInitialInterval {
		t.Fatalf("InitialInterval = %v, want %v", rc.InitialInterval, cfg.ExtractBackoffInitialInterval)
	}
	if rc.MaxInterval != cfg.ExtractBackoffMaxInterval {
		t.Fatalf("MaxInterval = %v, want %v", rc.MaxInterval, cfg.ExtractBackoffMaxInterval)
	}
	if rc.Multiplier != cfg.ExtractBackoffMultiplier {
		t.Fatalf("Multiplier = %v, want %v", rc.Multiplier, cfg.ExtractBackoffMultiplier)
	}
}

func TestConfig_GetExtractorRetryConfig_TestEnvIsFast(t *testing.T) {
	rc := Config{AppEnv: "test", ExtractBackoffMaxElapsedTime: time.Hour}.GetExtractorRetryConfig()
	if rc.MaxElapsedTime > 5*time.Second {
		t.Fatalf("test env should use short backoff, got %v", rc.MaxElapsedTime)
	}
}
