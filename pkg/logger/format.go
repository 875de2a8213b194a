package logger

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

const timeLayout = "2006-01-02 15:04:05"

// lineFormatter renders "[time] [LEVEL] [prefix]: message"
type lineFormatter struct {
	colors bool
}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level, prefix := entryMeta(entry)

	var b bytes.Buffer
	b.WriteString("[")
	b.WriteString(entry.Time.Format(timeLayout))
	b.WriteString("] [")
	if f.colors {
		b.WriteString(level.Color())
		b.WriteString(level.String())
		b.WriteString(colorReset)
	} else {
		b.WriteString(level.String())
	}
	fmt.Fprintf(&b, "] [%s]: %s\n", prefix, entry.Message)
	return b.Bytes(), nil
}

// entryMeta recovers the bot level and prefix. Entries logged straight through
// logrus (by libraries) have neither, so they are derived from the logrus level.
func entryMeta(entry *logrus.Entry) (LogLevel, string) {
	level, ok := entry.Data[fieldKind].(LogLevel)
	if !ok {
		switch entry.Level {
		case logrus.PanicLevel, logrus.FatalLevel:
			level = LevelCritical
		case logrus.ErrorLevel:
			level = LevelError
		case logrus.WarnLevel:
			level = LevelWarn
		case logrus.DebugLevel, logrus.TraceLevel:
			level = LevelDebug
		default:
			level = LevelInfo
		}
	}
	prefix, _ := entry.Data[fieldPrefix].(string)
	if prefix == "" {
		prefix = "SYS"
	}
	return level, prefix
}
