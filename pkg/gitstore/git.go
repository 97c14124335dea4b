package gitstore

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/scribe/pkg/docid"
	"github.com/hashicorp-forge/scribe/pkg/summary"
)

// Git object modes used in tree entries.
const (
	ModeBlob = "100644"
	ModeTree = "040000"
)

// DocumentClient is a Client scoped to a single document.
type DocumentClient struct {
	client *Client
	id     docid.DocumentID
	logger hclog.Logger
}

// ID returns the document identity this view is scoped to.
func (d *DocumentClient) ID() docid.DocumentID { return d.id }

// TreeEntry is one child of a git tree.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"` // "blob" or "tree"
	SHA  string `json:"sha"`
	Size int64  `json:"size,omitempty"`
}

// Blob is a stored blob with its content.
type Blob struct {
	SHA      string               `json:"sha"`
	Content  string               `json:"content"`
	Encoding summary.BlobEncoding `json:"encoding"`
	Size     int64                `json:"size"`
}

// Tree is a stored git tree.
type Tree struct {
	SHA     string      `json:"sha"`
	Entries []TreeEntry `json:"tree"`
}

// Commit is a stored commit pointing at a root tree.
type Commit struct {
	SHA     string         `json:"sha"`
	Message string         `json:"message"`
	Tree    CommitObject   `json:"tree"`
	Parents []CommitObject `json:"parents,omitempty"`
}

// CommitObject references another git object by sha.
type CommitObject struct {
	SHA string `json:"sha"`
}

// CreateCommitParams are the inputs for a new commit.
type CreateCommitParams struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents,omitempty"`
}

// Ref is a named pointer to a commit.
type Ref struct {
	Ref    string       `json:"ref"`
	Object CommitObject `json:"object"`
}

// createBlobParams mirrors the git data API: content plus its encoding.
type createBlobParams struct {
	Content  string               `json:"content"`
	Encoding summary.BlobEncoding `json:"encoding"`
}

type createBlobResponse struct {
	SHA string `json:"sha"`
	URL string `json:"url"`
}

type createTreeParams struct {
	Entries []TreeEntry `json:"tree"`
}

type createRefParams struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

type patchRefParams struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}

func (d *DocumentClient) gitPath(parts ...string) string {
	p := fmt.Sprintf("/repos/%s/%s/git",
		url.PathEscape(d.id.Tenant()), url.PathEscape(d.id.Document()))
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// CreateBlob uploads raw content as a blob and returns its sha. The service
// content-addresses blobs, so re-uploading identical content is idempotent.
func (d *DocumentClient) CreateBlob(ctx context.Context, content []byte, encoding summary.BlobEncoding) (string, error) {
	params := createBlobParams{
		Content:  base64.StdEncoding.EncodeToString(content),
		Encoding: summary.EncodingBase64,
	}
	if encoding == summary.EncodingUTF8 {
		params.Content = string(content)
		params.Encoding = summary.EncodingUTF8
	}

	var resp createBlobResponse
	if err := d.client.doRequest(ctx, http.MethodPost, d.gitPath("blobs"), params, &resp); err != nil {
		return "", fmt.Errorf("creating blob: %w", err)
	}
	return resp.SHA, nil
}

// GetBlob fetches a blob by sha.
func (d *DocumentClient) GetBlob(ctx context.Context, sha string) (*Blob, error) {
	var blob Blob
	if err := d.client.doRequest(ctx, http.MethodGet, d.gitPath("blobs", url.PathEscape(sha)), nil, &blob); err != nil {
		return nil, fmt.Errorf("getting blob %s: %w", sha, err)
	}
	return &blob, nil
}

// CreateTree stores a git tree from entries and returns its sha.
func (d *DocumentClient) CreateTree(ctx context.Context, entries []TreeEntry) (string, error) {
	var tree Tree
	if err := d.client.doRequest(ctx, http.MethodPost, d.gitPath("trees"), createTreeParams{Entries: entries}, &tree); err != nil {
		return "", fmt.Errorf("creating tree: %w", err)
	}
	return tree.SHA, nil
}

// GetTree fetches a tree by sha. With recursive set, the service expands all
// subtrees into a single entry list with full paths.
func (d *DocumentClient) GetTree(ctx context.Context, sha string, recursive bool) (*Tree, error) {
	path := d.gitPath("trees", url.PathEscape(sha))
	if recursive {
		path += "?recursive=1"
	}
	var tree Tree
	if err := d.client.doRequest(ctx, http.MethodGet, path, nil, &tree); err != nil {
		return nil, fmt.Errorf("getting tree %s: %w", sha, err)
	}
	return &tree, nil
}

// CreateCommit stores a commit.
func (d *DocumentClient) CreateCommit(ctx context.Context, params CreateCommitParams) (*Commit, error) {
	var commit Commit
	if err := d.client.doRequest(ctx, http.MethodPost, d.gitPath("commits"), params, &commit); err != nil {
		return nil, fmt.Errorf("creating commit: %w", err)
	}
	return &commit, nil
}

// GetCommit fetches a commit by sha.
func (d *DocumentClient) GetCommit(ctx context.Context, sha string) (*Commit, error) {
	var commit Commit
	if err := d.client.doRequest(ctx, http.MethodGet, d.gitPath("commits", url.PathEscape(sha)), nil, &commit); err != nil {
		return nil, fmt.Errorf("getting commit %s: %w", sha, err)
	}
	return &commit, nil
}

// CreateRef creates a named ref pointing at sha.
func (d *DocumentClient) CreateRef(ctx context.Context, ref, sha string) (*Ref, error) {
	var created Ref
	params := createRefParams{Ref: ref, SHA: sha}
	if err := d.client.doRequest(ctx, http.MethodPost, d.gitPath("refs"), params, &created); err != nil {
		return nil, fmt.Errorf("creating ref %s: %w", ref, err)
	}
	return &created, nil
}

// GetRef fetches a ref by name.
func (d *DocumentClient) GetRef(ctx context.Context, ref string) (*Ref, error) {
	var found Ref
	if err := d.client.doRequest(ctx, http.MethodGet, d.gitPath("refs", url.PathEscape(ref)), nil, &found); err != nil {
		return nil, fmt.Errorf("getting ref %s: %w", ref, err)
	}
	return &found, nil
}

// PatchRef moves an existing ref to sha. force permits non-fast-forward
// updates.
func (d *DocumentClient) PatchRef(ctx context.Context, ref, sha string, force bool) (*Ref, error) {
	var patched Ref
	params := patchRefParams{SHA: sha, Force: force}
	if err := d.client.doRequest(ctx, http.MethodPatch, d.gitPath("refs", url.PathEscape(ref)), params, &patched); err != nil {
		return nil, fmt.Errorf("patching ref %s: %w", ref, err)
	}
	return &patched, nil
}

// DeleteRef removes a ref.
func (d *DocumentClient) DeleteRef(ctx context.Context, ref string) error {
	if err := d.client.doRequest(ctx, http.MethodDelete, d.gitPath("refs", url.PathEscape(ref)), nil, nil); err != nil {
		return fmt.Errorf("deleting ref %s: %w", ref, err)
	}
	return nil
}
