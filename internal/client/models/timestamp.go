package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp decodes the expiration instants the backend returns. Both an
// RFC 3339 string and a unix time number are accepted; numbers above
// 1e12 are read as milliseconds.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		if v == "" {
			t.Time = time.Time{}
			return nil
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			t.Time = fromUnix(n)
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", v, err)
		}
		t.Time = parsed
	case float64:
		t.Time = fromUnix(v)
	default:
		return fmt.Errorf("invalid timestamp type %T", raw)
	}
	return nil
}

func fromUnix(n float64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(int64(n)).UTC()
	}
	return time.Unix(int64(n), 0).UTC()
}
