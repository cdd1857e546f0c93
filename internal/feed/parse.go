package feed

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/Dolhen-James/AMIO-PROJECT/internal/logic"
	"github.com/Dolhen-James/AMIO-PROJECT/internal/metrics"
)

// The feed wraps its readings in a top-level "data" array.
type envelope struct {
	Data []json.RawMessage `json:"data"`
}

const unknown = "unknown"

// Parse decodes a feed body into readings. Per-entry fields are optional:
// a missing or mistyped value becomes NaN, label and mote fall back to
// "unknown", timestamp falls back to 0. Entries without a finite value or
// a known mote are skipped. A body without the expected top-level shape
// yields a *ParseError and no readings; entries are never partially kept
// in that case.
func Parse(body []byte) ([]logic.Reading, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ParseError{Err: err}
	}
	if env.Data == nil {
		return nil, &ParseError{Err: errors.New("missing data array")}
	}

	readings := make([]logic.Reading, 0, len(env.Data))
	for _, raw := range env.Data {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, &ParseError{Err: err}
		}
		if fields == nil {
			return nil, &ParseError{Err: errors.New("entry is not an object")}
		}

		value := floatField(fields, "value")
		mote := stringField(fields, "mote")
		if math.IsNaN(value) || math.IsInf(value, 0) || mote == unknown {
			log.Printf("feed: skipping invalid entry: %s", raw)
			metrics.IncReadingsDropped()
			continue
		}

		readings = append(readings, logic.Reading{
			Mote:       mote,
			Label:      stringField(fields, "label"),
			Value:      value,
			ObservedAt: time.UnixMilli(intField(fields, "timestamp")),
		})
	}
	return readings, nil
}

// floatField reads a numeric field, accepting numbers and numeric
// strings. Anything else is NaN.
func floatField(fields map[string]any, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// intField reads an integer field, accepting numbers and numeric
// strings. Anything else is 0.
func intField(fields map[string]any, key string) int64 {
	switch v := fields[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// stringField reads a string field, treating anything else as "unknown".
func stringField(fields map[string]any, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return unknown
}
