package config

import (
	"os"
	"path/filepath"
)

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".", ".marketplace", "session.json")
	}
	return filepath.Join(dir, "marketplace", "session.json")
}
