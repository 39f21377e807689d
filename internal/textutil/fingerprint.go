package textutil

import (
	"math"
	"strings"
)

// Fingerprint represents a character-bigram frequency vector.
type Fingerprint struct {
	grams map[string]float64
	norm  float64
}

// NewFingerprint creates a fingerprint from the header key of text.
// Returns nil if the text has no letters or digits.
func NewFingerprint(text string) *Fingerprint {
	key := HeaderKey(text)
	if key == "" {
		return nil
	}
	padded := []rune("^" + key + "$")
	counts := make(map[string]float64, len(padded))
	for i := 0; i+1 < len(padded); i++ {
		counts[string(padded[i:i+2])]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{grams: counts, norm: math.Sqrt(norm)}
}

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for gram, count := range a.grams {
		if other, ok := b.grams[gram]; ok {
			dot += count * other
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (a.norm * b.norm)
}

// suggestThreshold is the minimum similarity for ClosestMatch to report a candidate.
const suggestThreshold = 0.4

// ClosestMatch returns the candidate most similar to target. ok is false when
// no candidate reaches the suggestion threshold. Ties keep the earliest candidate.
func ClosestMatch(target string, candidates []string) (string, bool) {
	want := NewFingerprint(target)
	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		score := CosineSimilarity(want, NewFingerprint(candidate))
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore < suggestThreshold {
		return "", false
	}
	return best, true
}
