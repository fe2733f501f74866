package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentiment is the collector's read on a token's social mood.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment normalizes a raw sentiment string, defaulting to neutral.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// TokenRecord is one collected market-data snapshot for a token.
type TokenRecord struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	// Identity
	Symbol  string `bson:"token_symbol" json:"token_symbol"`
	Name    string `bson:"token_name" json:"token_name"`
	Address string `bson:"token_address,omitempty" json:"token_address,omitempty"`

	// Market data. Collectors write these as numbers or as formatted
	// strings ("$0.0042", "1,200,000"), so they decode through FlexNumber.
	Price     FlexNumber `bson:"price,omitempty" json:"price,omitempty"`
	Volume24h FlexNumber `bson:"volume_24h,omitempty" json:"volume_24h,omitempty"`
	MarketCap FlexNumber `bson:"market_cap,omitempty" json:"market_cap,omitempty"`

	Sentiment Sentiment `bson:"sentiment,omitempty" json:"sentiment,omitempty"`
	Events    []string  `bson:"events,omitempty" json:"events,omitempty"`

	// Narrative metadata from the collector's analysis, all optional.
	NarrativeAlignment string `bson:"narrative_alignment,omitempty" json:"narrative_alignment,omitempty"`
	Timing             string `bson:"timing,omitempty" json:"timing,omitempty"`
	Categories         string `bson:"categories,omitempty" json:"categories,omitempty"`
	RiskLevel          string `bson:"risk_level,omitempty" json:"risk_level,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// ValidationError reports a precondition failure on input data.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// Validate checks the fields that must be present before generation.
func (t *TokenRecord) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return &ValidationError{Field: "token_symbol", Reason: "is required"}
	}
	if strings.TrimSpace(t.Name) == "" {
		return &ValidationError{Field: "token_name", Reason: "is required"}
	}
	return nil
}

// EffectiveSentiment returns the record's sentiment, defaulting to neutral.
func (t *TokenRecord) EffectiveSentiment() Sentiment {
	return ParseSentiment(string(t.Sentiment))
}

// Cashtag returns the token symbol as a cashtag, e.g. "$LURE".
func (t *TokenRecord) Cashtag() string {
	return "$" + strings.ToUpper(strings.TrimSpace(t.Symbol))
}
