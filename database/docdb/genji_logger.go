package docdb

import (
	stdlog "log"
	"os"
	"path"
	"strings"

	"github.com/pingcap/log"
	"go.uber.org/zap"
)

type loggingLevel int

const (
	DEBUG loggingLevel = iota
	INFO
	WARN
	ERROR
)

func parseLoggingLevel(level string) loggingLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// logger adapts badger logging to a dedicated file so that compaction noise
// stays out of the main log.
type logger struct {
	*stdlog.Logger
	level loggingLevel
}

func initLogger(logPath, logLevel string) (*logger, error) {
	logDir := logPath
	if logDir == "" {
		logDir = "docdb-log"
	}
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return nil, err
	}
	logFileName := path.Join(logDir, "docdb.log")
	logFile, err := os.OpenFile(logFileName, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Warn("failed to init docdb logger", zap.String("filename", logFileName), zap.Error(err))
		return nil, err
	}
	return &logger{Logger: stdlog.New(logFile, "badger ", stdlog.LstdFlags), level: parseLoggingLevel(logLevel)}, nil
}

func (l *logger) Errorf(f string, v ...interface{}) {
	if l.level <= ERROR {
		l.Printf("ERROR: "+f, v...)
	}
}

func (l *logger) Warningf(f string, v ...interface{}) {
	if l.level <= WARN {
		l.Printf("WARN: "+f, v...)
	}
}

func (l *logger) Infof(f string, v ...interface{}) {
	if l.level <= INFO {
		l.Printf("INFO: "+f, v...)
	}
}

func (l *logger) Debugf(f string, v ...interface{}) {
	if l.level <= DEBUG {
		l.Printf("DEBUG: "+f, v...)
	}
}
