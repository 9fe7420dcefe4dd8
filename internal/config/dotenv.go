package config

import (
	"os"

	"github.com/joho/godotenv"
)

// dotenvFiles in precedence order; godotenv never overwrites variables
// that are already set, so OS env wins over .env.local, which wins
// over .env.
var dotenvFiles = []string{".env.local", ".env"}

// LoadDotEnv layers any present .env files onto the environment.
// Missing files are skipped silently; production runs without any.
func LoadDotEnv() {
	var present []string
	for _, name := range dotenvFiles {
		if _, err := os.Stat(name); err == nil {
			present = append(present, name)
		}
	}
	if len(present) > 0 {
		_ = godotenv.Load(present...)
	}
}
