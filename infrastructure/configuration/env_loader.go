package configuration

import (
	"errors"
	"io/fs"

	"ytcurator/infrastructure/logger"

	"github.com/joho/godotenv"
)

// LoadEnvFromFile loads KEY=VALUE pairs from one or more files (e.g. config.env, .env).
// Variables already present in the environment are not overridden; missing files are skipped.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			logger.GetLogger().WithFields(map[string]interface{}{"file": p, "error": err}).Warn("Failed to load env file")
			continue
		}
		logger.GetLogger().WithField("file", p).Info("Loaded env file")
	}
}
