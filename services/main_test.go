package services

import (
	"os"
	"testing"

	"pinpost-api/config"
)

func TestMain(m *testing.M) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})
	os.Exit(m.Run())
}
