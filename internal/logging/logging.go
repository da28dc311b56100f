package logging

import (
	"encoding/json"
	"log"
	"time"
)

// Fields are the extra key/value pairs attached to a log line.
type Fields map[string]any

// JSON writes one structured log line. ts, level and msg are always set;
// fields may override none of them.
func JSON(logger *log.Logger, level, msg string, fields Fields) {
	if logger == nil {
		return
	}
	payload := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		payload[k] = v
	}
	payload["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	payload["level"] = level
	payload["msg"] = msg

	b, err := json.Marshal(payload)
	if err != nil {
		logger.Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	logger.Print(string(b))
}

func Info(logger *log.Logger, msg string, fields Fields) {
	JSON(logger, "info", msg, fields)
}

func Warn(logger *log.Logger, msg string, fields Fields) {
	JSON(logger, "warn", msg, fields)
}

func Error(logger *log.Logger, msg string, fields Fields) {
	JSON(logger, "error", msg, fields)
}
