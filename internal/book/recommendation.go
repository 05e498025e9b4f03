package book

import (
	"github.com/goccy/go-json"
)

// Provenance records which reasoning path produced a set of recommendations.
type Provenance string

const (
	ProvenanceAI       Provenance = "ai-reasoned"
	ProvenanceFallback Provenance = "fallback-filtered"
)

// Recommendation is a suggested book with its genre and a justification.
type Recommendation struct {
	EnrichedBook
	Genre         string
	Justification string
}

type recommendationView struct {
	enrichedView  `yaml:",inline"`
	Genre         string `json:"genre" yaml:"genre"`
	Justification string `json:"reason" yaml:"reason"`
}

func (r Recommendation) view() recommendationView {
	return recommendationView{
		enrichedView:  r.EnrichedBook.view(),
		Genre:         r.Genre,
		Justification: r.Justification,
	}
}

// MarshalJSON implements json.Marshaler.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.view())
}

// MarshalYAML implements yaml.Marshaler.
func (r Recommendation) MarshalYAML() (any, error) {
	return r.view(), nil
}

// RecommendationResult is the output of the recommendation pipeline.
// Items are in reasoner order and never contain a detected book.
type RecommendationResult struct {
	Items      []Recommendation `json:"items" yaml:"items"`
	Provenance Provenance       `json:"provenance" yaml:"provenance"`
	Detected   []EnrichedBook   `json:"detected" yaml:"detected"`
}
