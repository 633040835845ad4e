package imstiff

import (
	"io"
	"log"
	"strings"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
)

// ModeFlag is the minimum severity of the messages written by the package logger.
type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	SilentMode
)

// ParseLogMode converts "debug", "info", "warning", "error" or "silent" to a ModeFlag.
func ParseLogMode(s string) (ModeFlag, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugMode, nil
	case "", "info":
		return InfoMode, nil
	case "warning", "warn":
		return WarningMode, nil
	case "error":
		return ErrorMode, nil
	case "silent":
		return SilentMode, nil
	}
	return InfoMode, errors.Errorf("unknown log mode %q", s)
}

// Logger provides a way for the reader to log messages at different severities.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// Shutdown makes sure logs are closed.
	Shutdown()
}

var (
	mode   = InfoMode
	logger Logger = stdLogger{}
)

// SetLogMode sets the severity required for a log message to be printed.
// To turn off all logging, use SilentMode.
func SetLogMode(newMode ModeFlag) {
	mode = newMode
}

// SetLogger replaces the package logger. A nil logger restores the standard one.
func SetLogger(l Logger) {
	if l == nil {
		l = stdLogger{}
	}
	logger = l
}

// ShutdownLogger closes the outputs of the package logger, e.g. the log file
// installed by LogConfig.SetLogger.
func ShutdownLogger() {
	logger.Shutdown()
}

func Debugf(format string, args ...interface{}) {
	if mode <= DebugMode {
		logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		logger.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if mode <= WarningMode {
		logger.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if mode <= ErrorMode {
		logger.Errorf(format, args...)
	}
}

// LogConfig describes where log messages go.
type LogConfig struct {
	Logfile string
	MaxSize int    `toml:"max_log_size"`
	MaxAge  int    `toml:"max_log_age"`
	Mode    string `toml:"log_mode"`
}

// SetLogger applies the configuration: severity and, when a log file is given, a rotating file output.
func (c *LogConfig) SetLogger() error {
	if c == nil {
		return nil
	}
	m, err := ParseLogMode(c.Mode)
	if err != nil {
		return err
	}
	SetLogMode(m)

	if c.Logfile == "" {
		return nil
	}
	l := &lumberjack.Logger{
		Filename: c.Logfile,
		MaxSize:  c.MaxSize, // megabytes
		MaxAge:   c.MaxAge,  // days
	}
	SetLogger(stdLogger{out: log.New(l, "", log.LstdFlags), closer: l})
	return nil
}

// --- Logger implementation ----

// stdLogger writes to the standard log package unless out is set.
type stdLogger struct {
	out    *log.Logger
	closer io.Closer
}

func (s stdLogger) printf(format string, args ...interface{}) {
	if s.out != nil {
		s.out.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (s stdLogger) Debugf(format string, args ...interface{}) {
	s.printf(" DEBUG "+format, args...)
}

func (s stdLogger) Infof(format string, args ...interface{}) {
	s.printf(" INFO "+format, args...)
}

func (s stdLogger) Warningf(format string, args ...interface{}) {
	s.printf(" WARNING "+format, args...)
}

func (s stdLogger) Errorf(format string, args ...interface{}) {
	s.printf(" ERROR "+format, args...)
}

func (s stdLogger) Shutdown() {
	if s.closer != nil {
		s.closer.Close()
	}
}
