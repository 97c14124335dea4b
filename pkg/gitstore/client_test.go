package gitstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/scribe/pkg/docid"
	"github.com/hashicorp-forge/scribe/pkg/neterror"
	"github.com/hashicorp-forge/scribe/pkg/summary"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(&Config{
		BaseURL:              srv.URL,
		Token:                "test-token",
		InitialRetryInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return client, srv
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    *Config
		wantError bool
	}{
		{
			name:   "valid config",
			config: &Config{BaseURL: "https://storage.example.com", Token: "tok"},
		},
		{
			name:      "missing base url",
			config:    &Config{Token: "tok"},
			wantError: true,
		},
		{
			name:      "missing token",
			config:    &Config{BaseURL: "https://storage.example.com"},
			wantError: true,
		},
		{
			name:      "bad scheme",
			config:    &Config{BaseURL: "ftp://storage.example.com", Token: "tok"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.config)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotCorrelation, gotDriver string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCorrelation = r.Header.Get("x-correlation-id")
		gotDriver = r.Header.Get("x-driver-version")
		fmt.Fprint(w, `{"sha":"abc"}`)
	}))

	doc := client.Document(docid.MustNew("acme", "doc-1"))
	_, err := doc.GetBlob(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.NotEmpty(t, gotCorrelation)
	assert.Equal(t, defaultDriverVersion, gotDriver)
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "transient", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"sha":"abc"}`)
	}))

	doc := client.Document(docid.MustNew("acme", "doc-1"))
	sha, err := doc.CreateBlob(context.Background(), []byte("hello"), summary.EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "abc", sha)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"summary not found"}`)
	}))

	doc := client.Document(docid.MustNew("acme", "doc-1"))
	_, err := doc.GetLatestSummary(context.Background())
	require.Error(t, err)

	code, ok := neterror.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGitOperations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/doc-1/git/blobs", func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			Content  string `json:"content"`
			Encoding string `json:"encoding"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "hello", params.Content)
		assert.Equal(t, "utf-8", params.Encoding)
		fmt.Fprint(w, `{"sha":"blob-sha","url":"/blobs/blob-sha"}`)
	})
	mux.HandleFunc("POST /repos/acme/doc-1/git/trees", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"tree-sha","tree":[]}`)
	})
	mux.HandleFunc("GET /repos/acme/doc-1/git/trees/tree-sha", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"tree-sha","tree":[{"path":"header","mode":"100644","type":"blob","sha":"blob-sha"}]}`)
	})
	mux.HandleFunc("POST /repos/acme/doc-1/git/commits", func(w http.ResponseWriter, r *http.Request) {
		var params CreateCommitParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, "first summary", params.Message)
		assert.Equal(t, "tree-sha", params.Tree)
		fmt.Fprint(w, `{"sha":"commit-sha","message":"first summary","tree":{"sha":"tree-sha"}}`)
	})
	mux.HandleFunc("GET /repos/acme/doc-1/git/commits/commit-sha", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"commit-sha","message":"first summary","tree":{"sha":"tree-sha"}}`)
	})
	mux.HandleFunc("POST /repos/acme/doc-1/git/refs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ref":"refs/heads/main","object":{"sha":"commit-sha"}}`)
	})
	mux.HandleFunc("GET /repos/acme/doc-1/git/refs/{ref...}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ref":"refs/heads/main","object":{"sha":"commit-sha"}}`)
	})
	mux.HandleFunc("PATCH /repos/acme/doc-1/git/refs/{ref...}", func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			SHA   string `json:"sha"`
			Force bool   `json:"force"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.True(t, params.Force)
		fmt.Fprintf(w, `{"ref":"refs/heads/main","object":{"sha":%q}}`, params.SHA)
	})
	var refDeleted bool
	mux.HandleFunc("DELETE /repos/acme/doc-1/git/refs/{ref...}", func(w http.ResponseWriter, r *http.Request) {
		refDeleted = true
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := newTestClient(t, mux)
	doc := client.Document(docid.MustNew("acme", "doc-1"))
	ctx := context.Background()

	sha, err := doc.CreateBlob(ctx, []byte("hello"), summary.EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "blob-sha", sha)

	treeSHA, err := doc.CreateTree(ctx, []TreeEntry{{Path: "header", Mode: ModeBlob, Type: "blob", SHA: sha}})
	require.NoError(t, err)
	assert.Equal(t, "tree-sha", treeSHA)

	tree, err := doc.GetTree(ctx, "tree-sha", false)
	require.NoError(t, err)
	require.Len(t, tree.Entries, 1)
	assert.Equal(t, "header", tree.Entries[0].Path)

	commit, err := doc.CreateCommit(ctx, CreateCommitParams{Message: "first summary", Tree: treeSHA})
	require.NoError(t, err)
	assert.Equal(t, "commit-sha", commit.SHA)

	fetched, err := doc.GetCommit(ctx, commit.SHA)
	require.NoError(t, err)
	assert.Equal(t, "first summary", fetched.Message)
	assert.Equal(t, treeSHA, fetched.Tree.SHA)

	ref, err := doc.CreateRef(ctx, "refs/heads/main", "commit-sha")
	require.NoError(t, err)
	assert.Equal(t, "commit-sha", ref.Object.SHA)

	got, err := doc.GetRef(ctx, "refs/heads/main")
	require.NoError(t, err)
	assert.Equal(t, "commit-sha", got.Object.SHA)

	patched, err := doc.PatchRef(ctx, "refs/heads/main", "new-sha", true)
	require.NoError(t, err)
	assert.Equal(t, "new-sha", patched.Object.SHA)

	require.NoError(t, doc.DeleteRef(ctx, "refs/heads/main"))
	assert.True(t, refDeleted)
}

func TestSummaryOperations(t *testing.T) {
	whole, err := summary.ConvertToWholeTree("", &summary.Tree{Entries: map[string]summary.Object{
		"header": &summary.Blob{Content: []byte("title"), Encoding: summary.EncodingUTF8},
	}}, "", summary.DefaultTreePrefix)
	require.NoError(t, err)
	flat, err := summary.FlattenWholeTree(whole, summary.DefaultTreePrefix, 11)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/doc-1/summaries", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("initial"))
		var payload summary.WholePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "container", payload.Type)
		fmt.Fprintf(w, `{"id":%q}`, flat.ID)
	})
	mux.HandleFunc("GET /repos/acme/doc-1/summaries/latest", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(flat))
	})

	client, _ := newTestClient(t, mux)
	doc := client.Document(docid.MustNew("acme", "doc-1"))
	ctx := context.Background()

	handle, err := doc.CreateSummary(ctx, &summary.WholePayload{
		Type:           "container",
		SequenceNumber: 11,
		Entries:        whole.Entries,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, flat.ID, handle)

	normalized, err := doc.DownloadSummary(ctx, summary.DefaultTreePrefix)
	require.NoError(t, err)
	assert.Equal(t, int64(11), normalized.SequenceNumber)
	require.Contains(t, normalized.SnapshotTree.Blobs, "header")
}
