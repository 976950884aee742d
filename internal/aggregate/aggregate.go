// Package aggregate derives display-ready views from a batch snapshot: the
// dense pairwise similarity matrix, flagged-segment extraction, the
// AI-detection summary, and the top-level statistics row.
//
// Every function is pure and deterministic over its (documents, results)
// input. Nothing here performs I/O or touches shared state, so the package is
// safe to call from any number of sessions without coordination.
package aggregate

import (
	"strings"

	"github.com/harper/simscan/internal/domain"
)

// SelfCell is the "not applicable" sentinel stored on the matrix diagonal.
// It never participates in any aggregate statistic.
const SelfCell = -1

// Band is the qualitative severity label derived from a similarity percentage.
type Band string

const (
	BandMinimal Band = "minimal"
	BandLow     Band = "low"
	BandMedium  Band = "medium"
	BandHigh    Band = "high"
)

// BandFor classifies a similarity percentage into a severity band.
// Parameters:
//   - pct: similarity percentage, 0-100.
//
// Returns:
//   - Band: minimal (<25), low ([25,50)), medium ([50,80)), or high (>=80).
func BandFor(pct float64) Band {
	switch {
	case pct >= 80:
		return BandHigh
	case pct >= 50:
		return BandMedium
	case pct >= 25:
		return BandLow
	default:
		return BandMinimal
	}
}

// CorpusMode reports whether the result set represents corpus comparisons
// (user submissions scored against a fixed reference corpus) rather than
// peer-to-peer comparisons.
// Parameters:
//   - results: the batch's pairwise results.
//
// Returns:
//   - bool: true if at least one result is marked as a corpus comparison.
func CorpusMode(results []domain.PairResult) bool {
	for i := range results {
		if results[i].Details.IsCorpusComparison {
			return true
		}
	}
	return false
}

// UserDocuments returns the user-facing document set. In corpus mode the
// injected reference documents are excluded so they never appear as
// analyzable submissions in summary counts; otherwise the input is returned
// unchanged.
// Parameters:
//   - docs: all documents in the batch, in display order.
//   - corpusMode: whether the batch is in corpus mode.
//
// Returns:
//   - []domain.Document: documents to present as user submissions.
func UserDocuments(docs []domain.Document, corpusMode bool) []domain.Document {
	if !corpusMode {
		return docs
	}
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if !d.IsCorpus() {
			out = append(out, d)
		}
	}
	return out
}

func pairKey(a, b string) string {
	return a + "\x00" + b
}

// BuildMatrix produces the dense n×n similarity matrix over documents in
// display order. Cell (i,j) holds the similarity of the result covering that
// unordered document pair (lookup works regardless of which side was reported
// as A), 0 when no comparison exists for the pair, and SelfCell on the
// diagonal. A result referencing a document id absent from docs simply never
// matches a cell.
// Parameters:
//   - docs: documents in display order.
//   - results: pairwise results to index.
//
// Returns:
//   - [][]float64: n×n matrix, symmetric off the diagonal.
func BuildMatrix(docs []domain.Document, results []domain.PairResult) [][]float64 {
	lookup := make(map[string]float64, len(results)*2)
	for i := range results {
		r := &results[i]
		lookup[pairKey(r.DocA, r.DocB)] = r.SimilarityPct
		lookup[pairKey(r.DocB, r.DocA)] = r.SimilarityPct
	}

	matrix := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(docs))
		for j := range docs {
			if i == j {
				row[j] = SelfCell
				continue
			}
			// Missing comparisons render as 0, same as a true 0% score.
			row[j] = lookup[pairKey(docs[i].ID, docs[j].ID)]
		}
		matrix[i] = row
	}
	return matrix
}

// FlaggedSegment is one flagged span with its 1-based display position.
type FlaggedSegment struct {
	Position int `json:"position"`
	domain.Segment
}

// FlaggedPair surfaces one result that carries flagged segments, together
// with the pair's aggregate metrics.
type FlaggedPair struct {
	ResultID              string           `json:"result_id"`
	DocAName              string           `json:"doc_a_name"`
	DocBName              string           `json:"doc_b_name"`
	SimilarityPct         float64          `json:"similarity_pct"`
	Band                  Band             `json:"band"`
	TextSimilarity        float64          `json:"text_similarity"`
	FingerprintSimilarity float64          `json:"fingerprint_similarity"`
	MatchedFingerprints   int              `json:"matched_fingerprints"`
	TotalFingerprints     int              `json:"total_fingerprints"`
	Segments              []FlaggedSegment `json:"segments"`
}

// FlaggedPairs extracts the results whose details carry at least one flagged
// segment. Results with an empty flagged_segments list are excluded even when
// their similarity is nonzero. When the two documents report different
// fingerprint totals the larger one is used as the denominator context.
// Parameters:
//   - docs: documents used to resolve display names.
//   - results: pairwise results to filter.
//
// Returns:
//   - []FlaggedPair: flagged pairs in result order, segments numbered from 1.
func FlaggedPairs(docs []domain.Document, results []domain.PairResult) []FlaggedPair {
	names := make(map[string]string, len(docs))
	for _, d := range docs {
		names[d.ID] = d.OriginalName
	}

	var flagged []FlaggedPair
	for i := range results {
		r := &results[i]
		if len(r.Details.FlaggedSegments) == 0 {
			continue
		}

		total := r.Details.TotalFingerprintsA
		if r.Details.TotalFingerprintsB > total {
			total = r.Details.TotalFingerprintsB
		}

		segments := make([]FlaggedSegment, len(r.Details.FlaggedSegments))
		for j, seg := range r.Details.FlaggedSegments {
			segments[j] = FlaggedSegment{Position: j + 1, Segment: seg}
		}

		flagged = append(flagged, FlaggedPair{
			ResultID:              r.ID,
			DocAName:              docName(names, r.DocA, r.DocAName),
			DocBName:              docName(names, r.DocB, r.DocBName),
			SimilarityPct:         r.SimilarityPct,
			Band:                  BandFor(r.SimilarityPct),
			TextSimilarity:        r.Details.TextSimilarity,
			FingerprintSimilarity: r.Details.FingerprintSimilarity,
			MatchedFingerprints:   r.Details.MatchedFingerprints,
			TotalFingerprints:     total,
			Segments:              segments,
		})
	}
	return flagged
}

// docName resolves a document id to a display name, falling back to the name
// denormalized onto the result and finally the raw id. Dangling references
// stay renderable rather than failing.
func docName(names map[string]string, id, fallback string) string {
	if name, ok := names[id]; ok {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return id
}

// AISummary aggregates AI-detection outcomes across the documents that carry
// a verdict.
type AISummary struct {
	DocumentCount int     `json:"document_count"`
	MeanScore     float64 `json:"mean_score"`
	LikelyAICount int     `json:"likely_ai_count"`
}

// SummarizeAI computes the AI-detection summary over the documents that carry
// a verdict. Documents without AI data are ignored entirely.
// Parameters:
//   - docs: documents to summarize (already corpus-partitioned by the caller).
//
// Returns:
//   - *AISummary: summary, or nil when no document qualifies. "No AI data" is
//     a distinct case from "all clean", so the absent summary is never
//     replaced by a zero-valued one.
func SummarizeAI(docs []domain.Document) *AISummary {
	var sum float64
	summary := AISummary{}
	for i := range docs {
		if !docs[i].HasAIVerdict() {
			continue
		}
		summary.DocumentCount++
		sum += docs[i].AIDetection.AIScore
		if docs[i].AIDetection.Verdict == domain.VerdictLikelyAI {
			summary.LikelyAICount++
		}
	}
	if summary.DocumentCount == 0 {
		return nil
	}
	summary.MeanScore = sum / float64(summary.DocumentCount)
	return &summary
}

// Stats is the top-level reporting row for a batch.
type Stats struct {
	DocumentCount   int     `json:"document_count"`
	ComparisonCount int     `json:"comparison_count"`
	MaxSimilarity   float64 `json:"max_similarity"`
	MeanSimilarity  float64 `json:"mean_similarity"`
}

// Summarize computes the statistics row: corpus-aware document count,
// comparison count, and max/mean similarity. Max and mean of an empty result
// set are 0, never NaN.
// Parameters:
//   - userDocs: the corpus-partitioned document set.
//   - results: all pairwise results.
//
// Returns:
//   - Stats: the statistics row.
func Summarize(userDocs []domain.Document, results []domain.PairResult) Stats {
	stats := Stats{
		DocumentCount:   len(userDocs),
		ComparisonCount: len(results),
	}
	if len(results) == 0 {
		return stats
	}
	var sum float64
	for i := range results {
		pct := results[i].SimilarityPct
		sum += pct
		if pct > stats.MaxSimilarity {
			stats.MaxSimilarity = pct
		}
	}
	stats.MeanSimilarity = sum / float64(len(results))
	return stats
}

// Report is the full aggregated view of one batch snapshot.
type Report struct {
	CorpusMode    bool              `json:"corpus_mode"`
	UserDocuments []domain.Document `json:"user_documents"`
	Stats         Stats             `json:"stats"`
	Matrix        [][]float64       `json:"matrix"`
	Flagged       []FlaggedPair     `json:"flagged"`
	AI            *AISummary        `json:"ai,omitempty"`
}

// Compute derives the full aggregate view for a batch snapshot. The matrix
// spans every document (corpus rows included, matching the backend's result
// set); counts and the AI summary use the corpus-partitioned set.
// Parameters:
//   - b: validated batch snapshot.
//
// Returns:
//   - *Report: aggregated view; nil for a nil batch.
func Compute(b *domain.Batch) *Report {
	if b == nil {
		return nil
	}
	corpusMode := CorpusMode(b.Results)
	userDocs := UserDocuments(b.Documents, corpusMode)
	return &Report{
		CorpusMode:    corpusMode,
		UserDocuments: userDocs,
		Stats:         Summarize(userDocs, b.Results),
		Matrix:        BuildMatrix(b.Documents, b.Results),
		Flagged:       FlaggedPairs(b.Documents, b.Results),
		AI:            SummarizeAI(userDocs),
	}
}

// FeatureLabel maps a backend AI-feature key to its display label. Unknown
// keys fall back to the raw key so new backend features stay visible.
// Parameters:
//   - key: backend feature name, e.g. "transition_density".
//
// Returns:
//   - string: human-readable label.
func FeatureLabel(key string) string {
	if label, ok := featureLabels[key]; ok {
		return label
	}
	return key
}

// Known AI linguistic/statistical feature keys emitted by the backend.
var featureLabels = map[string]string{
	"transition_density":   "Transition Words",
	"formulaic_phrases":    "Formulaic Phrases",
	"hedging_density":      "Hedging Language",
	"connective_overuse":   "Connective Overuse",
	"repetitive_openers":   "Repetitive Openers",
	"burstiness":           "Sentence Burstiness",
	"vocabulary_richness":  "Vocabulary Richness",
	"sentence_uniformity":  "Sentence Uniformity",
	"paragraph_regularity": "Paragraph Regularity",
	"sentence_complexity":  "Sentence Complexity",
	"corpus_similarity":    "Corpus Match",
	"ngram_overlap":        "N-gram Overlap",
}

// VerdictLabel maps an AI verdict to its display label.
// Parameters:
//   - v: verdict value.
//
// Returns:
//   - string: human-readable label; raw value when unknown.
func VerdictLabel(v domain.AIVerdict) string {
	switch v {
	case domain.VerdictLikelyHuman:
		return "Likely Human"
	case domain.VerdictUncertain:
		return "Uncertain"
	case domain.VerdictLikelyAI:
		return "Likely AI"
	}
	return strings.ReplaceAll(string(v), "_", " ")
}
