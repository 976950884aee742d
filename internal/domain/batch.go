package domain

import "time"

// BatchStatus represents the processing status of an analysis batch.
// Values include BatchStatusQueued, BatchStatusProcessing, BatchStatusCompleted, and BatchStatusFailed.
type BatchStatus string

const (
	BatchStatusQueued     BatchStatus = "queued"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

// Valid reports whether the status is one of the four known values.
// Parameters: none.
// Returns:
//   - bool: true if the status is a recognized value.
func (s BatchStatus) Valid() bool {
	switch s {
	case BatchStatusQueued, BatchStatusProcessing, BatchStatusCompleted, BatchStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status is final. A terminal batch never
// transitions again and its results may be treated as complete.
// Parameters: none.
// Returns:
//   - bool: true for completed or failed.
func (s BatchStatus) Terminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed
}

// CorpusKeyPrefix marks storage keys of reference-corpus documents. Documents
// under this prefix are injected by the backend for corpus comparisons and are
// not user submissions.
const CorpusKeyPrefix = "__corpus__/"

// AIVerdict classifies a document's AI-likelihood.
type AIVerdict string

const (
	VerdictLikelyHuman AIVerdict = "likely_human"
	VerdictUncertain   AIVerdict = "uncertain"
	VerdictLikelyAI    AIVerdict = "likely_ai"
)

// AIDetection holds the backend's AI-generated-text analysis for one document.
type AIDetection struct {
	Verdict  AIVerdict          `json:"verdict"`
	AIScore  float64            `json:"ai_score"`
	Features map[string]float64 `json:"features,omitempty"`
}

// Document represents one analyzed unit within a batch.
type Document struct {
	ID           string       `json:"id"`
	OriginalName string       `json:"original_name"`
	StorageKey   string       `json:"minio_key"`
	FileSize     int64        `json:"file_size,omitempty"`
	MimeType     string       `json:"mime_type,omitempty"`
	AIDetection  *AIDetection `json:"ai_detection,omitempty"`
	UploadedAt   time.Time    `json:"uploaded_at"`
}

// IsCorpus reports whether the document is a reference-corpus document rather
// than a user submission.
// Parameters: none.
// Returns:
//   - bool: true if the storage key carries the corpus prefix.
func (d *Document) IsCorpus() bool {
	return len(d.StorageKey) >= len(CorpusKeyPrefix) && d.StorageKey[:len(CorpusKeyPrefix)] == CorpusKeyPrefix
}

// HasAIVerdict reports whether the document carries usable AI-detection data.
// Parameters: none.
// Returns:
//   - bool: true if an AIDetection with a non-empty verdict is present.
func (d *Document) HasAIVerdict() bool {
	return d.AIDetection != nil && d.AIDetection.Verdict != ""
}

// Segment is one flagged overlapping span between two documents. Offsets are
// end-exclusive token positions.
type Segment struct {
	DocAStart  int `json:"doc_a_start"`
	DocAEnd    int `json:"doc_a_end"`
	DocBStart  int `json:"doc_b_start"`
	DocBEnd    int `json:"doc_b_end"`
	MatchCount int `json:"match_count"`
}

// ResultDetails carries the rich per-pair comparison data.
type ResultDetails struct {
	TextSimilarity        float64   `json:"text_similarity"`
	FingerprintSimilarity float64   `json:"fingerprint_similarity"`
	MatchedFingerprints   int       `json:"matched_fingerprints"`
	TotalFingerprintsA    int       `json:"total_fingerprints_a"`
	TotalFingerprintsB    int       `json:"total_fingerprints_b"`
	IsCorpusComparison    bool      `json:"is_corpus_comparison"`
	FlaggedSegments       []Segment `json:"flagged_segments"`
}

// PairResult is one pairwise comparison outcome. DocA/DocB are non-owning
// document id references; the order of the two sides carries no meaning.
type PairResult struct {
	ID            string        `json:"id"`
	DocA          string        `json:"doc_a"`
	DocAName      string        `json:"doc_a_name,omitempty"`
	DocB          string        `json:"doc_b"`
	DocBName      string        `json:"doc_b_name,omitempty"`
	SimilarityPct float64       `json:"similarity_pct"`
	Details       ResultDetails `json:"details"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Options holds the user-selected detection tuning knobs. Smaller k-gram sizes
// catch shorter matches; smaller windows yield more, finer-grained fingerprints.
type Options struct {
	KGramSize  int `json:"k_gram_size,omitempty"`
	WindowSize int `json:"window_size,omitempty"`
}

// Batch is one submitted analysis job: a set of documents plus the pairwise
// results the backend produced for them. Batches arrive as read-only snapshots;
// a later fetch supersedes the whole value, never patches it.
type Batch struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Status      BatchStatus  `json:"status"`
	Provider    string       `json:"provider"`
	Options     Options      `json:"options"`
	Documents   []Document   `json:"documents"`
	Results     []PairResult `json:"results"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// BatchSummary is the lightweight batch shape returned by the list endpoint.
type BatchSummary struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Status        BatchStatus `json:"status"`
	Provider      string      `json:"provider"`
	DocumentCount int         `json:"document_count"`
	CreatedAt     time.Time   `json:"created_at"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
}

// BatchPage is one page of the paginated batch listing.
type BatchPage struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []BatchSummary `json:"results"`
}

// TextEntry is one pasted-text submission: an author label plus the raw text.
type TextEntry struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}
