package logging

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	ansiReset   = "\x1b[0m"
	ansiRed     = "\x1b[31m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiBlue    = "\x1b[34m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
)

// TextFormatter renders entries log4j style: timestamp, padded level, logger
// name, caller file:line, message, trailing k=v fields.
type TextFormatter struct {
	LoggerName      string
	TimestampFormat string
	NameWidth       int
	DisableColors   bool
}

func (f *TextFormatter) tsFormat() string {
	if f.TimestampFormat != "" {
		return f.TimestampFormat
	}
	return "2006-01-02 15:04:05.000"
}

func (f *TextFormatter) nameWidth() int {
	if f.NameWidth > 0 {
		return f.NameWidth
	}
	return 10
}

// Format implements logrus.Formatter.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(entry.Time.Format(f.tsFormat()))
	buf.WriteByte(' ')
	buf.WriteString(f.level(entry.Level))
	buf.WriteByte(' ')

	name := f.LoggerName
	if name == "" {
		name = "app"
	}
	buf.WriteString(f.color(fmt.Sprintf("%-*s", f.nameWidth(), name), ansiMagenta))

	if entry.HasCaller() {
		caller := fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
		buf.WriteByte(' ')
		buf.WriteString(f.color(fmt.Sprintf("%-20s", caller), ansiCyan))
	}

	buf.WriteString(" : ")
	buf.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteByte(' ')
			buf.WriteString(k)
			buf.WriteByte('=')
			buf.WriteString(fmt.Sprintf("%v", entry.Data[k]))
		}
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (f *TextFormatter) level(level logrus.Level) string {
	lvl := fmt.Sprintf("%7s", strings.ToUpper(level.String()))
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return f.color(lvl, ansiBlue)
	case logrus.InfoLevel:
		return f.color(lvl, ansiGreen)
	case logrus.WarnLevel:
		return f.color(lvl, ansiYellow)
	default:
		return f.color(lvl, ansiRed)
	}
}

func (f *TextFormatter) color(s, code string) string {
	if f.DisableColors {
		return s
	}
	return code + s + ansiReset
}

// jsonFormatter is the structured alternative; it shares the timestamp
// layout with TextFormatter so both outputs agree.
func jsonFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05.000",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	}
}
