package logging

import (
	"fmt"
	"strings"
)

// LoggerType is a type of logger output.
// Possible types:
//   - LoggerText: The standard slog.TextHandler.
//   - LoggerJSON: The standard slog.JSONHandler.
//   - LoggerPretty: The logger outputs pretty messages, colored when writing to a terminal.
//   - LoggerPrettyNoColor: The logger outputs pretty messages without colors.
type LoggerType int

const (
	LoggerText LoggerType = iota
	LoggerJSON
	LoggerPretty
	LoggerPrettyNoColor
)

var loggerTypeNames = [...]string{
	LoggerText:          "Text",
	LoggerJSON:          "JSON",
	LoggerPretty:        "Pretty",
	LoggerPrettyNoColor: "PrettyNoColor",
}

func (t LoggerType) String() string {
	if t < 0 || int(t) >= len(loggerTypeNames) {
		return fmt.Sprintf("LoggerType(%d)", t)
	}
	return loggerTypeNames[t]
}

func (t LoggerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts a type name in any case.
func (t *LoggerType) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range loggerTypeNames {
		if strings.EqualFold(name, s) {
			*t = LoggerType(i)
			return nil
		}
	}
	return fmt.Errorf("%q does not belong to LoggerType values", s)
}
