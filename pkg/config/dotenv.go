package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnvUp searches for ".env" in the working directory and its parents
// and loads the first match. Variables already set in the environment win.
// No-op when nothing is found.
func LoadDotEnvUp(maxDepth int) string {
	if maxDepth <= 0 {
		maxDepth = 6
	}

	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for i := 0; i <= maxDepth; i++ {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				return p
			}
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
