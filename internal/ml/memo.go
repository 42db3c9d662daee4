package ml

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/credlens/credlens/internal/cache"
	"github.com/credlens/credlens/internal/model"
)

// memoizedClassifier caches verdicts of an expensive provider by content
// hash. Verdicts are deterministic per input, so a TTL is only needed to
// bound memory.
type memoizedClassifier struct {
	inner ClassificationProvider
	store cache.Cache
	ttl   time.Duration
}

// NewMemoizedClassifier wraps a classification provider with a verdict cache
func NewMemoizedClassifier(inner ClassificationProvider, store cache.Cache, ttl time.Duration) ClassificationProvider {
	return &memoizedClassifier{inner: inner, store: store, ttl: ttl}
}

func (m *memoizedClassifier) Name() string {
	return m.inner.Name()
}

func (m *memoizedClassifier) Scores(ctx context.Context, text string, labels []string) (map[string]float64, error) {
	key := cache.Key("classify", m.inner.Name(), strings.Join(labels, ","), text)
	if b, ok := m.store.Get(key); ok {
		var scores map[string]float64
		if err := json.Unmarshal(b, &scores); err == nil {
			return scores, nil
		}
	}

	scores, err := m.inner.Scores(ctx, text, labels)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(scores); err == nil {
		_ = m.store.Set(key, b, m.ttl)
	}
	return scores, nil
}

type memoizedSentiment struct {
	inner SentimentProvider
	store cache.Cache
	ttl   time.Duration
}

// NewMemoizedSentiment wraps a sentiment provider with a verdict cache
func NewMemoizedSentiment(inner SentimentProvider, store cache.Cache, ttl time.Duration) SentimentProvider {
	return &memoizedSentiment{inner: inner, store: store, ttl: ttl}
}

func (m *memoizedSentiment) Name() string {
	return m.inner.Name()
}

type sentimentVerdict struct {
	Polarity   model.Polarity `json:"polarity"`
	Confidence float64        `json:"confidence"`
}

func (m *memoizedSentiment) Analyze(ctx context.Context, text string) (model.Polarity, float64, error) {
	key := cache.Key("sentiment", m.inner.Name(), text)
	if b, ok := m.store.Get(key); ok {
		var v sentimentVerdict
		if err := json.Unmarshal(b, &v); err == nil {
			return v.Polarity, v.Confidence, nil
		}
	}

	polarity, confidence, err := m.inner.Analyze(ctx, text)
	if err != nil {
		return polarity, confidence, err
	}
	if b, err := json.Marshal(sentimentVerdict{Polarity: polarity, Confidence: confidence}); err == nil {
		_ = m.store.Set(key, b, m.ttl)
	}
	return polarity, confidence, nil
}
