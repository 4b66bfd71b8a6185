package bootstrap

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:       "mongodb://localhost:27017",
		MongoDatabase:  "announcements",
		SessionKey:     "test-key",
		SessionName:    "announcements-session",
		NotifyInterval: time.Minute,
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), testLogger()); err != nil {
		t.Fatalf("ValidateConfig failed on valid config: %v", err)
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "http://not-a-mongo-uri"

	err := ValidateConfig(nil, cfg, testLogger())
	if err == nil {
		t.Fatal("expected error for non-mongodb URI")
	}
	if !strings.Contains(err.Error(), "MongoDB URI") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateConfig_NonPositiveNotifyInterval(t *testing.T) {
	cfg := validAppConfig()
	cfg.NotifyInterval = 0

	err := ValidateConfig(nil, cfg, testLogger())
	if err == nil {
		t.Fatal("expected error for zero notify_interval")
	}
	if !strings.Contains(err.Error(), "notify_interval") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateConfig_GatewayURLWithoutKey(t *testing.T) {
	// A gateway URL without a key is allowed; it only warns.
	cfg := validAppConfig()
	cfg.PushGatewayURL = "https://push.example.com/send"

	if err := ValidateConfig(nil, cfg, testLogger()); err != nil {
		t.Fatalf("ValidateConfig failed: %v", err)
	}
}
