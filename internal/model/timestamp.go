package model

import (
	"encoding/json"
	"math"
	"time"

	"github.com/rotisserie/eris"
)

// Timestamp is the canonical in-memory representation of a lead
// timestamp. Upstream stores deliver timestamps in several shapes: an
// ISO-8601 / RFC3339 string, a unix epoch number, or a document-store
// wrapper object carrying seconds and nanoseconds. All of them are
// normalized here, at the ingestion boundary, so the engines only ever
// see one type. The zero value means "absent".
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps a time.Time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// IsSet reports whether the timestamp carries a value.
func (t Timestamp) IsSet() bool {
	return !t.Time.IsZero()
}

// storeTimestamp matches document-store native timestamp wrappers,
// e.g. {"seconds": 1700000000, "nanoseconds": 0}. Underscore-prefixed
// variants appear in serialized form.
type storeTimestamp struct {
	Seconds      *int64 `json:"seconds"`
	Nanoseconds  *int64 `json:"nanoseconds"`
	USeconds     *int64 `json:"_seconds"`
	UNanoseconds *int64 `json:"_nanoseconds"`
}

// stringLayouts are tried in order when parsing a string timestamp.
var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// MarshalJSON emits RFC3339 UTC, or null when absent.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts null, a string, an epoch number, or a
// store-native wrapper object.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "model: unmarshal timestamp string")
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil

	case '{':
		var st storeTimestamp
		if err := json.Unmarshal(data, &st); err != nil {
			return eris.Wrap(err, "model: unmarshal timestamp object")
		}
		secs := st.Seconds
		nanos := st.Nanoseconds
		if secs == nil {
			secs = st.USeconds
			nanos = st.UNanoseconds
		}
		if secs == nil {
			return eris.New("model: timestamp object missing seconds")
		}
		var n int64
		if nanos != nil {
			n = *nanos
		}
		t.Time = time.Unix(*secs, n).UTC()
		return nil

	default:
		var epoch float64
		if err := json.Unmarshal(data, &epoch); err != nil {
			return eris.Wrap(err, "model: unmarshal timestamp number")
		}
		sec, frac := math.Modf(epoch)
		t.Time = time.Unix(int64(sec), int64(frac*1e9)).UTC()
		return nil
	}
}

// ParseTimestamp parses an ISO-8601 style string into a Timestamp.
// An empty string yields the unset zero value.
func ParseTimestamp(s string) (Timestamp, error) {
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range stringLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: parsed.UTC()}, nil
		}
	}
	return Timestamp{}, eris.Errorf("model: unrecognized timestamp %q", s)
}
