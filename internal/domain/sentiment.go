package domain

import (
	"encoding/json"
	"fmt"
)

// Sentiment is the four-valued effectiveness rating a parent attaches to
// feedback. The legacy wire encoding is a mix of booleans and strings
// ("love", true, "neutral", false); Sentiment keeps the four variants
// distinct instead of collapsing the positives into a bool.
type Sentiment string

const (
	SentimentNone     Sentiment = ""
	SentimentLove     Sentiment = "love"
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment decodes a wire value into a Sentiment. The external
// store serves sentiment as JSON true/false or the strings "love" and
// "neutral"; nil means no rating has been given.
func ParseSentiment(raw any) (Sentiment, error) {
	switch v := raw.(type) {
	case nil:
		return SentimentNone, nil
	case bool:
		if v {
			return SentimentPositive, nil
		}
		return SentimentNegative, nil
	case string:
		switch v {
		case "love":
			return SentimentLove, nil
		case "neutral":
			return SentimentNeutral, nil
		case "true":
			return SentimentPositive, nil
		case "false":
			return SentimentNegative, nil
		case "":
			return SentimentNone, nil
		}
	}
	return SentimentNone, fmt.Errorf("unrecognized sentiment value %v", raw)
}

// WireValue returns the legacy encoding the external store expects:
// JSON true/false for the plain positive/negative variants and the
// strings "love"/"neutral" for the others. Returns nil for no rating.
func (s Sentiment) WireValue() any {
	switch s {
	case SentimentLove:
		return "love"
	case SentimentNeutral:
		return "neutral"
	case SentimentPositive:
		return true
	case SentimentNegative:
		return false
	}
	return nil
}

// MarshalJSON emits the legacy wire encoding.
func (s Sentiment) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.WireValue())
}

// UnmarshalJSON accepts the legacy wire encoding.
func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSentiment(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Icon returns the glyph the UI shows for each variant.
func (s Sentiment) Icon() string {
	switch s {
	case SentimentLove:
		return "♥"
	case SentimentPositive:
		return "✓"
	case SentimentNeutral:
		return "~"
	case SentimentNegative:
		return "✗"
	}
	return " "
}

// Label returns a human-readable name for the variant.
func (s Sentiment) Label() string {
	switch s {
	case SentimentLove:
		return "Loving it"
	case SentimentPositive:
		return "Working well"
	case SentimentNeutral:
		return "Not sure yet"
	case SentimentNegative:
		return "Not working"
	}
	return "No rating"
}
