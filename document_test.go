package complaints

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAnalyze(t *testing.T) {
	p := fitScenarioPipeline(t)
	sa, err := NewSentimentAnalyzer(loadTestResources(t), DefaultSentimentConfig(), WithSentenceBreakdown(true))
	if err != nil {
		t.Fatal(err)
	}

	c, err := p.Analyze("Someone stole my card. I am furious!", WithSentiment(sa), WithVotes(true))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if c.Category != "Fraud" {
		t.Errorf("Expected Fraud, got %s", c.Category)
	}
	if c.Normalized != "someon steal card furious" {
		t.Errorf("Unexpected normalized text %q", c.Normalized)
	}
	if c.Metadata.TokenCount != 4 || c.Metadata.VocabularyHits != 2 {
		t.Errorf("Expected 4 tokens with 2 vocabulary hits, got %+v", c.Metadata)
	}
	if c.Metadata.Language != English || c.Metadata.ProcessedAt.IsZero() {
		t.Errorf("Metadata not filled: %+v", c.Metadata)
	}

	total := 0.0
	for _, v := range c.Votes {
		total += v
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("Expected vote shares to sum to 1, got %.3f", total)
	}
	if c.Confidence != c.Votes["Fraud"] || c.Confidence <= 0.5 {
		t.Errorf("Confidence %.2f does not match the winning vote share %v", c.Confidence, c.Votes)
	}

	if c.Sentiment == nil || c.Sentiment.Label != Negative {
		t.Errorf("Expected a Negative sentiment, got %+v", c.Sentiment)
	}
	if c.Metadata.SentenceCount != 2 {
		t.Errorf("Expected 2 sentences, got %d", c.Metadata.SentenceCount)
	}
}

func TestAnalyzeDefaults(t *testing.T) {
	p := fitScenarioPipeline(t)

	c, err := p.Analyze("Question about my loan payment")
	if err != nil {
		t.Fatal(err)
	}
	if c.Category != "Loan" {
		t.Errorf("Expected Loan, got %s", c.Category)
	}
	if c.Votes != nil || c.Sentiment != nil {
		t.Error("Votes and sentiment should be omitted by default")
	}

	empty, err := p.Analyze("")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Normalized != "" || empty.Metadata.TokenCount != 0 || empty.Category == "" {
		t.Errorf("Unexpected analysis of empty text: %+v", empty)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	p := fitScenarioPipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Analyze("stolen card", WithContext(ctx)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()
	if _, err := p.Analyze("stolen card", WithContext(expired), WithTimeout(time.Minute)); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
}

func TestAnalyzeUnfitted(t *testing.T) {
	p := NewPipeline(NewNormalizer(nil))
	if _, err := p.Analyze("stolen card"); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Expected ErrNotFitted, got %v", err)
	}
}
