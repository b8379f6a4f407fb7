package models

import (
	"encoding/json"
	"fmt"
)

// Sentiment is the overall tone assigned to an entry by the analysis engine.
// The zero value means "not analyzed".
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// ParseSentiment accepts exactly the three known values.
func ParseSentiment(s string) (Sentiment, error) {
	switch v := Sentiment(s); v {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return v, nil
	default:
		return "", fmt.Errorf("unknown sentiment %q", s)
	}
}

// Score maps Positive to +1, Neutral to 0 and Negative to -1.
func (s Sentiment) Score() int {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

func (s Sentiment) Valid() bool {
	_, err := ParseSentiment(string(s))
	return err == nil
}

func (s *Sentiment) UnmarshalJSON(b []byte) error {
	var raw *string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = ""
		return nil
	}
	v, err := ParseSentiment(*raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
