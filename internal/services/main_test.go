package services

import (
	"os"
	"testing"

	"ledgerly/internal/logger"
)

func TestMain(m *testing.M) {
	logger.InitNop()
	os.Exit(m.Run())
}
