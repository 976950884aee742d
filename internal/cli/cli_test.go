package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command against a fake backend and captures output.
func execute(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--api-url", srv.URL))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"submit", "text", "watch", "list", "delete", "serve", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestSubmitCmd_RequiresFiles(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"submit"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestTextCmd_RequiresTwoEntries(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"text", "A=only.txt"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 2 arg")
}

func TestSubmitCmd_Flags(t *testing.T) {
	for _, name := range []string{"name", "provider", "k-gram", "window", "no-wait"} {
		assert.NotNil(t, submitCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestListCmd_RendersTable(t *testing.T) {
	out, err := execute(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batches/", r.URL.Path)
		w.Write([]byte(`{"count":1,"next":null,"previous":null,"results":[
			{"id":"11111111-2222-3333-4444-555555555555","name":"essays","status":"completed",
			 "document_count":4,"created_at":"2026-08-01T10:00:00Z"}
		]}`))
	}, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "essays")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "1 batch(es) total")
}

func TestListCmd_Empty(t *testing.T) {
	out, err := execute(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":0,"next":null,"previous":null,"results":[]}`))
	}, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No batches found.")
}

func TestDeleteCmd(t *testing.T) {
	out, err := execute(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/batches/b1/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}, "delete", "b1")

	require.NoError(t, err)
	assert.Contains(t, out, "Batch b1 deleted")
}

func TestDeleteCmd_NotFound(t *testing.T) {
	_, err := execute(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found."}`))
	}, "delete", "gone")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "may already have been deleted")
}

func TestWatchCmd_RendersCompletedBatch(t *testing.T) {
	out, err := execute(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batches/b1/", r.URL.Path)
		w.Write([]byte(`{
			"id":"b1","name":"essays","status":"completed",
			"documents":[
				{"id":"d1","original_name":"a.txt","minio_key":"b1/x/a.txt"},
				{"id":"d2","original_name":"b.txt","minio_key":"b1/y/b.txt"}
			],
			"results":[
				{"id":"r1","doc_a":"d1","doc_b":"d2","similarity_pct":42.5,
				 "details":{"text_similarity":40,"fingerprint_similarity":45,
				            "matched_fingerprints":3,"total_fingerprints_a":10,
				            "total_fingerprints_b":12,"is_corpus_comparison":false,
				            "flagged_segments":[]}}
			]
		}`))
	}, "watch", "b1")

	require.NoError(t, err)
	assert.Contains(t, out, "essays — completed")
	assert.Contains(t, out, "42.5%")
	assert.Contains(t, out, "Similarity Matrix")
	assert.Contains(t, out, "No suspicious segments detected.")
}

func TestWatchCmd_NotFound(t *testing.T) {
	_, err := execute(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found."}`))
	}, "watch", "gone")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "may have been deleted")
}
