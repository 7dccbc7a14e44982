// Package logging configures the launcher's diagnostic log.
package logging

import (
	"io"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init routes logrus output to a rotating file. An empty path keeps
// logging on stderr, which is what --verbosity debug wants in a
// terminal.
func Init(level log.Level, logPath string) {
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})

	if logPath == "" {
		return
	}
	log.SetOutput(io.Writer(&lumberjack.Logger{
		Filename:   filepath.ToSlash(logPath),
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     30, // days
	}))
}

// LevelFor maps the CLI verbosity setting onto a logrus level.
func LevelFor(verbosity int) log.Level {
	switch {
	case verbosity >= 2:
		return log.DebugLevel
	case verbosity == 1:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}
