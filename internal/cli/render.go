package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/harper/simscan/internal/aggregate"
	"github.com/harper/simscan/internal/domain"
)

// renderReport prints the full aggregated view of a settled batch.
func renderReport(cmd *cobra.Command, batch *domain.Batch, report *aggregate.Report) {
	name := batch.Name
	if name == "" {
		name = batch.ID
	}
	cmd.Printf("\n%s — %s\n\n", name, batch.Status)

	docLabel, cmpLabel, maxLabel, avgLabel := "Documents", "Comparisons", "Highest similarity", "Average similarity"
	if report.CorpusMode {
		docLabel, cmpLabel, maxLabel, avgLabel = "Uploaded", "AI corpus matches", "Highest AI match", "Average AI match"
	}
	cmd.Printf("  %-20s %d\n", docLabel, report.Stats.DocumentCount)
	cmd.Printf("  %-20s %d\n", cmpLabel, report.Stats.ComparisonCount)
	cmd.Printf("  %-20s %.1f%%\n", maxLabel, report.Stats.MaxSimilarity)
	cmd.Printf("  %-20s %.1f%%\n\n", avgLabel, report.Stats.MeanSimilarity)

	renderAISummary(cmd, report)
	renderMatrix(cmd, batch.Documents, report.Matrix)
	renderFlagged(cmd, report.Flagged)
}

func renderAISummary(cmd *cobra.Command, report *aggregate.Report) {
	if report.AI == nil {
		return
	}
	cmd.Println("AI Content Detection")
	if report.AI.LikelyAICount > 0 {
		cmd.Printf("  %d document(s) flagged as likely AI-generated\n", report.AI.LikelyAICount)
	}
	cmd.Printf("  Avg AI score %.1f%% across %d document(s)\n", report.AI.MeanScore, report.AI.DocumentCount)

	for _, doc := range report.UserDocuments {
		if !doc.HasAIVerdict() {
			continue
		}
		ai := doc.AIDetection
		cmd.Printf("  %-30s %-14s %5.1f%%\n", truncate(doc.OriginalName, 30), aggregate.VerdictLabel(ai.Verdict), ai.AIScore)
		for _, key := range sortedKeys(ai.Features) {
			cmd.Printf("      %-26s %3.0f%%\n", aggregate.FeatureLabel(key), ai.Features[key]*100)
		}
	}
	cmd.Println()
}

func renderMatrix(cmd *cobra.Command, docs []domain.Document, matrix [][]float64) {
	if len(docs) == 0 || len(matrix) == 0 {
		return
	}
	cmd.Println("Similarity Matrix")
	cmd.Printf("  %-15s", "")
	for _, doc := range docs {
		cmd.Printf(" %15s", truncate(doc.OriginalName, 15))
	}
	cmd.Println()

	for i, doc := range docs {
		cmd.Printf("  %-15s", truncate(doc.OriginalName, 15))
		for j := range docs {
			if matrix[i][j] == aggregate.SelfCell {
				cmd.Printf(" %15s", "—")
				continue
			}
			cell := fmt.Sprintf("%.1f%% %s", matrix[i][j], aggregate.BandFor(matrix[i][j]))
			cmd.Printf(" %15s", cell)
		}
		cmd.Println()
	}
	cmd.Println()
}

func renderFlagged(cmd *cobra.Command, flagged []aggregate.FlaggedPair) {
	cmd.Println("Flagged Segments")
	if len(flagged) == 0 {
		cmd.Println("  No suspicious segments detected.")
		return
	}
	for _, fp := range flagged {
		cmd.Printf("  %s ↔ %s — %.1f%% similar (%s)\n", fp.DocAName, fp.DocBName, fp.SimilarityPct, fp.Band)
		cmd.Printf("    text %.0f%% · fingerprint %.0f%% · matches %d/%d\n",
			fp.TextSimilarity, fp.FingerprintSimilarity, fp.MatchedFingerprints, fp.TotalFingerprints)
		for _, seg := range fp.Segments {
			cmd.Printf("    segment %d: doc A pos %d–%d, doc B pos %d–%d, %d matching fingerprints\n",
				seg.Position, seg.DocAStart, seg.DocAEnd, seg.DocBStart, seg.DocBEnd, seg.MatchCount)
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
