package logx

import (
	"encoding/json"
	"time"
)

// jsonKeys names the top-level keys of a JSON log line.
type jsonKeys struct {
	message   string
	timestamp string
}

// JSONFormatter formats logs as one JSON object per line
type JSONFormatter struct {
	config *Config
	keys   jsonKeys
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(config *Config) *JSONFormatter {
	return &JSONFormatter{config: config, keys: jsonKeys{message: "message", timestamp: "timestamp"}}
}

// NewCloudWatchFormatter creates a JSON formatter using the msg/time keys
// CloudWatch Logs Insights discovers automatically.
func NewCloudWatchFormatter(config *Config) *JSONFormatter {
	return &JSONFormatter{config: config, keys: jsonKeys{message: "msg", timestamp: "time"}}
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	data := make(map[string]any, len(entry.Fields)+5)

	for k, v := range entry.Fields {
		data[k] = v
	}

	data["level"] = entry.Level.String()
	data[f.keys.message] = entry.Message

	if f.config.EnableTimestamp {
		switch f.config.TimeFormat {
		case "unix":
			data[f.keys.timestamp] = entry.Timestamp.Unix()
		case "unixmilli":
			data[f.keys.timestamp] = entry.Timestamp.UnixMilli()
		default:
			data[f.keys.timestamp] = entry.Timestamp.Format(time.RFC3339Nano)
		}
	}

	if f.config.EnableCaller && entry.Caller != "" {
		data["caller"] = entry.Caller
	}

	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}

	if entry.Data != nil {
		data["data"] = entry.Data
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return append(bytes, '\n'), nil
}
