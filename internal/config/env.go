package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFile loads environment variables from .env/.env.local next to the configuration file.
// It stops at the first file found. Existing process environment variables are not overwritten.
func loadEnvFile(dir string) error {
	for _, name := range []string{".env", ".env.local"} {
		envPath := filepath.Join(dir, name)
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		slog.Debug("Loaded environment variables", slog.String("path", envPath))
		return nil
	}
	return nil
}
