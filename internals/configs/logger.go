package configs

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SetupLogger configures the global logrus logger.
func SetupLogger(cfg LogConfig) {
	log.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("unknown LOG_LEVEL, falling back to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
