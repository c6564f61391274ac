package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/observability"
)

// maxEmbeddingBatchSize is the provider's per-call input limit.
const maxEmbeddingBatchSize = 100

// EmbeddingService deduplicates and batches text embedding requests, keyed by
// a fingerprint of the normalized text. Records never expire; Clear wipes the
// cache wholesale.
type EmbeddingService struct {
	generator EmbeddingGenerator

	mu      sync.RWMutex
	records map[string]*EmbeddingRecord
}

// NewEmbeddingService creates an embedding cache over the given generator.
func NewEmbeddingService(generator EmbeddingGenerator) *EmbeddingService {
	return &EmbeddingService{
		generator: generator,
		records:   make(map[string]*EmbeddingRecord),
	}
}

// normalizeText lowercases and collapses whitespace so trivially different
// inputs share a fingerprint.
func normalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Fingerprint derives the deterministic cache key for a text: a SHA-256
// digest over the full normalized input.
func Fingerprint(text string) string {
	hash := sha256.Sum256([]byte(normalizeText(text)))
	return hex.EncodeToString(hash[:])
}

// Embed returns the vector for a single text, from cache when possible.
func (s *EmbeddingService) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	results, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return EmbeddingResult{}, err
	}
	return results[0], nil
}

// EmbedBatch embeds every text, preserving input order. Inputs are chunked
// into provider calls of at most maxEmbeddingBatchSize; within each chunk,
// already-cached and repeated fingerprints are skipped so each unique cold
// fingerprint costs exactly one provider slot. A provider failure aborts the
// batch; chunks already processed stay cached.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([]EmbeddingResult, error) {
	results := make([]EmbeddingResult, len(texts))
	if len(texts) == 0 {
		return results, nil
	}

	logger := observability.FromContext(ctx)

	// Cached tells whether the fingerprint was already served once, either
	// from a previous call or from an earlier occurrence in this batch.
	cached := make(map[string]bool, len(texts))
	fingerprints := make([]string, len(texts))
	for i, text := range texts {
		fp := Fingerprint(text)
		fingerprints[i] = fp
		if _, ok := cached[fp]; !ok {
			cached[fp] = s.lookup(fp) != nil
		}
	}

	for start := 0; start < len(texts); start += maxEmbeddingBatchSize {
		end := min(start+maxEmbeddingBatchSize, len(texts))

		var pendingTexts []string
		var pendingFPs []string
		requested := make(map[string]bool)
		for i := start; i < end; i++ {
			fp := fingerprints[i]
			if s.lookup(fp) != nil || requested[fp] {
				continue
			}
			requested[fp] = true
			pendingTexts = append(pendingTexts, texts[i])
			pendingFPs = append(pendingFPs, fp)
		}

		if len(pendingTexts) > 0 {
			if err := s.generateChunk(ctx, pendingTexts, pendingFPs); err != nil {
				return nil, err
			}
			logger.Debug("embedded chunk",
				observability.Int("requested", len(pendingTexts)),
				observability.Int("chunk_size", end-start))
		}

		for i := start; i < end; i++ {
			record := s.lookup(fingerprints[i])
			if record == nil {
				return nil, fmt.Errorf("embedding missing for input %d after provider call", i)
			}
			results[i] = EmbeddingResult{
				Vector:     record.Vector,
				TokenCount: record.TokenCount,
				Cached:     cached[fingerprints[i]],
			}
			cached[fingerprints[i]] = true
		}
	}

	return results, nil
}

// generateChunk issues one provider call and caches every returned vector.
func (s *EmbeddingService) generateChunk(ctx context.Context, texts []string, fingerprints []string) error {
	vectors, tokens, err := s.generator.Generate(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding provider call failed: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding provider returned %d vectors for %d inputs", len(vectors), len(texts))
	}

	tokenCounts := apportionTokens(tokens, texts)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, fp := range fingerprints {
		s.records[fp] = &EmbeddingRecord{
			Fingerprint: fp,
			Vector:      vectors[i],
			TokenCount:  tokenCounts[i],
		}
	}

	return nil
}

// apportionTokens splits the provider's total token usage across the inputs
// proportionally to text length. A rough attribution, but good enough for
// usage accounting.
func apportionTokens(total int, texts []string) []int {
	counts := make([]int, len(texts))
	if total <= 0 {
		return counts
	}

	var totalLen int
	for _, t := range texts {
		totalLen += len(t)
	}
	if totalLen == 0 {
		counts[0] = total
		return counts
	}

	assigned := 0
	for i, t := range texts {
		counts[i] = total * len(t) / totalLen
		assigned += counts[i]
	}
	counts[0] += total - assigned

	return counts
}

func (s *EmbeddingService) lookup(fingerprint string) *EmbeddingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[fingerprint]
}

// Size returns the number of cached fingerprints.
func (s *EmbeddingService) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear wipes the embedding cache wholesale.
func (s *EmbeddingService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*EmbeddingRecord)
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|), in [-1, 1]. Vectors of
// different length indicate mixed embedding models and fail hard.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{LenA: len(a), LenB: len(b)}
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
