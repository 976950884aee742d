package aggregate

import (
	"testing"

	"github.com/harper/simscan/internal/domain"
)

func doc(id, name, key string) domain.Document {
	return domain.Document{ID: id, OriginalName: name, StorageKey: key}
}

func pair(a, b string, pct float64) domain.PairResult {
	return domain.PairResult{ID: a + "-" + b, DocA: a, DocB: b, SimilarityPct: pct}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want Band
	}{
		{0, BandMinimal},
		{24.9, BandMinimal},
		{25, BandLow},
		{49.9, BandLow},
		{50, BandMedium},
		{79.9, BandMedium},
		{80, BandHigh},
		{100, BandHigh},
	}

	for _, tt := range tests {
		if got := BandFor(tt.pct); got != tt.want {
			t.Errorf("BandFor(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestBuildMatrix_TwoDocuments(t *testing.T) {
	docs := []domain.Document{doc("d1", "a.txt", "k1"), doc("d2", "b.txt", "k2")}
	results := []domain.PairResult{pair("d1", "d2", 42.5)}

	matrix := BuildMatrix(docs, results)

	want := [][]float64{{SelfCell, 42.5}, {42.5, SelfCell}}
	for i := range want {
		for j := range want[i] {
			if matrix[i][j] != want[i][j] {
				t.Errorf("matrix[%d][%d] = %v, want %v", i, j, matrix[i][j], want[i][j])
			}
		}
	}

	stats := Summarize(docs, results)
	if stats.ComparisonCount != 1 || stats.MaxSimilarity != 42.5 || stats.MeanSimilarity != 42.5 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestBuildMatrix_SymmetricAndSentinel(t *testing.T) {
	docs := []domain.Document{
		doc("d1", "a", "k1"), doc("d2", "b", "k2"), doc("d3", "c", "k3"),
	}
	// Reversed reporting order for one pair, one pair absent entirely.
	results := []domain.PairResult{pair("d2", "d1", 61.0), pair("d3", "d2", 10.0)}

	matrix := BuildMatrix(docs, results)

	for i := range docs {
		if matrix[i][i] != SelfCell {
			t.Errorf("matrix[%d][%d] = %v, want sentinel", i, i, matrix[i][i])
		}
		for j := range docs {
			if matrix[i][j] != matrix[j][i] {
				t.Errorf("matrix not symmetric at (%d,%d): %v vs %v", i, j, matrix[i][j], matrix[j][i])
			}
		}
	}
	if matrix[0][1] != 61.0 {
		t.Errorf("reversed pair lookup failed: got %v", matrix[0][1])
	}
	if matrix[0][2] != 0 {
		t.Errorf("absent pair should render as 0, got %v", matrix[0][2])
	}
}

func TestBuildMatrix_DanglingReference(t *testing.T) {
	docs := []domain.Document{doc("d1", "a", "k1"), doc("d2", "b", "k2")}
	results := []domain.PairResult{pair("d1", "ghost", 99.0)}

	matrix := BuildMatrix(docs, results)

	if matrix[0][1] != 0 {
		t.Errorf("result referencing an unknown document must not match any cell, got %v", matrix[0][1])
	}
}

func TestSummarize_EmptyResults(t *testing.T) {
	stats := Summarize(nil, nil)

	if stats.MaxSimilarity != 0 || stats.MeanSimilarity != 0 {
		t.Errorf("empty result set must yield 0 max/mean, got %+v", stats)
	}
}

func TestCorpusPartition(t *testing.T) {
	docs := []domain.Document{
		doc("d1", "essay.txt", "b1/x/essay.txt"),
		doc("d2", "GPT-4 Reference", domain.CorpusKeyPrefix+"ref-1"),
		doc("d3", "notes.txt", "b1/y/notes.txt"),
	}
	corpusResults := []domain.PairResult{
		{ID: "r1", DocA: "d1", DocB: "d2", SimilarityPct: 33,
			Details: domain.ResultDetails{IsCorpusComparison: true}},
	}

	if CorpusMode(nil) {
		t.Error("empty result set must not be corpus mode")
	}
	if !CorpusMode(corpusResults) {
		t.Error("expected corpus mode with a corpus comparison present")
	}

	userDocs := UserDocuments(docs, true)
	if len(userDocs) != 2 || userDocs[0].ID != "d1" || userDocs[1].ID != "d3" {
		t.Errorf("corpus partition wrong: %+v", userDocs)
	}

	// Peer-to-peer mode keeps every document, corpus-keyed or not.
	if got := UserDocuments(docs, false); len(got) != 3 {
		t.Errorf("expected all documents outside corpus mode, got %d", len(got))
	}
}

func TestFlaggedPairs(t *testing.T) {
	docs := []domain.Document{doc("d1", "a.txt", "k1"), doc("d2", "b.txt", "k2")}
	results := []domain.PairResult{
		{
			ID: "r1", DocA: "d1", DocB: "d2", SimilarityPct: 85.0,
			Details: domain.ResultDetails{
				TextSimilarity:        80.0,
				FingerprintSimilarity: 90.0,
				MatchedFingerprints:   12,
				TotalFingerprintsA:    20,
				TotalFingerprintsB:    31,
				FlaggedSegments: []domain.Segment{
					{DocAStart: 0, DocAEnd: 40, DocBStart: 10, DocBEnd: 50, MatchCount: 5},
					{DocAStart: 90, DocAEnd: 120, DocBStart: 95, DocBEnd: 125, MatchCount: 3},
				},
			},
		},
		// Nonzero similarity but nothing flagged: excluded.
		{ID: "r2", DocA: "d1", DocB: "d2", SimilarityPct: 40.0},
	}

	flagged := FlaggedPairs(docs, results)

	if len(flagged) != 1 {
		t.Fatalf("expected 1 flagged pair, got %d", len(flagged))
	}
	fp := flagged[0]
	if fp.DocAName != "a.txt" || fp.DocBName != "b.txt" {
		t.Errorf("unexpected names: %q, %q", fp.DocAName, fp.DocBName)
	}
	if fp.TotalFingerprints != 31 {
		t.Errorf("expected larger fingerprint total 31, got %d", fp.TotalFingerprints)
	}
	if fp.Band != BandHigh {
		t.Errorf("expected high band, got %q", fp.Band)
	}
	if len(fp.Segments) != 2 || fp.Segments[0].Position != 1 || fp.Segments[1].Position != 2 {
		t.Errorf("segments not numbered from 1 in display order: %+v", fp.Segments)
	}
}

func TestSummarizeAI(t *testing.T) {
	withAI := func(id string, verdict domain.AIVerdict, score float64) domain.Document {
		return domain.Document{
			ID: id, OriginalName: id, StorageKey: id,
			AIDetection: &domain.AIDetection{Verdict: verdict, AIScore: score},
		}
	}

	t.Run("no qualifying documents", func(t *testing.T) {
		docs := []domain.Document{doc("d1", "a", "k1"), doc("d2", "b", "k2")}
		if got := SummarizeAI(docs); got != nil {
			t.Errorf("expected absent summary, got %+v", got)
		}
	})

	t.Run("mixed verdicts", func(t *testing.T) {
		docs := []domain.Document{
			withAI("d1", domain.VerdictLikelyAI, 88),
			withAI("d2", domain.VerdictLikelyHuman, 12),
			doc("d3", "no-ai", "k3"),
		}
		summary := SummarizeAI(docs)
		if summary == nil {
			t.Fatal("expected summary")
		}
		if summary.DocumentCount != 2 {
			t.Errorf("expected 2 qualifying documents, got %d", summary.DocumentCount)
		}
		if summary.MeanScore != 50 {
			t.Errorf("expected mean 50, got %v", summary.MeanScore)
		}
		if summary.LikelyAICount != 1 {
			t.Errorf("expected 1 likely_ai, got %d", summary.LikelyAICount)
		}
	})
}

func TestCompute_FullReport(t *testing.T) {
	batch := &domain.Batch{
		ID:     "b1",
		Status: domain.BatchStatusCompleted,
		Documents: []domain.Document{
			doc("d1", "a.txt", "b1/x/a.txt"),
			doc("d2", "ref", domain.CorpusKeyPrefix+"ref-1"),
		},
		Results: []domain.PairResult{
			{ID: "r1", DocA: "d1", DocB: "d2", SimilarityPct: 55,
				Details: domain.ResultDetails{IsCorpusComparison: true}},
		},
	}

	report := Compute(batch)

	if !report.CorpusMode {
		t.Error("expected corpus mode")
	}
	if report.Stats.DocumentCount != 1 {
		t.Errorf("document count must exclude corpus docs, got %d", report.Stats.DocumentCount)
	}
	if report.Stats.ComparisonCount != 1 || report.Stats.MaxSimilarity != 55 {
		t.Errorf("unexpected stats: %+v", report.Stats)
	}
	// Matrix still spans every document, corpus rows included.
	if len(report.Matrix) != 2 {
		t.Errorf("expected 2x2 matrix, got %dx?", len(report.Matrix))
	}
	if report.AI != nil {
		t.Error("expected absent AI summary with no verdicts")
	}
	if Compute(nil) != nil {
		t.Error("nil batch must yield nil report")
	}
}
