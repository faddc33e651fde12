package controllers

import (
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
)

// loadSettings reads the explicit config file, or the first one found for
// repoDir, falling back to the defaults when none exists.
func loadSettings(configPath, repoDir string) (*entities.Settings, error) {
	cfgPath := configPath
	if cfgPath == "" {
		found, err := entities.FindConfigFile(repoDir)
		if err != nil {
			logger.Debugf("No config file found (%v), using defaults", err)
			return entities.DefaultSettings(), nil
		}
		cfgPath = found
	}

	logger.Infof("Using config file: %s", cfgPath)
	return entities.NewSettings(cfgPath)
}

func repoDirFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func enableVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}
}
