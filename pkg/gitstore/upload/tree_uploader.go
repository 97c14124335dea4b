package upload

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/scribe/pkg/gitstore"
	"github.com/hashicorp-forge/scribe/pkg/neterror"
	"github.com/hashicorp-forge/scribe/pkg/summary"
)

// TreeUploader persists a summary tree node by node: one git write per blob
// and per tree, bottom up. The storage service content-addresses objects, so
// unchanged nodes deduplicate server-side; handle entries short-circuit the
// write entirely by resolving the referenced object in the parent summary.
//
// The returned handle is the root tree sha.
type TreeUploader struct {
	storage Storage
	logger  hclog.Logger
}

var _ SummaryUploader = (*TreeUploader)(nil)

// NewTreeUploader creates a node-by-node uploader.
func NewTreeUploader(storage Storage, logger hclog.Logger) *TreeUploader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TreeUploader{
		storage: storage,
		logger:  logger.Named("tree-uploader"),
	}
}

// UploadSummary implements SummaryUploader.
func (u *TreeUploader) UploadSummary(ctx context.Context, tree *summary.Tree, parentHandle string, opts Options) (string, error) {
	if tree == nil {
		return "", neterror.New(http.StatusBadRequest, "summary tree is nil")
	}

	handle, err := u.writeTree(ctx, tree, parentHandle)
	if err != nil {
		return "", err
	}

	u.logger.Debug("uploaded summary tree",
		"handle", handle,
		"parent_handle", parentHandle,
		"sequence_number", opts.SequenceNumber,
		"initial", opts.Initial,
	)
	return handle, nil
}

// writeTree persists one tree level and returns its sha. Sibling blobs are
// written concurrently; a failure on any child aborts the upload.
func (u *TreeUploader) writeTree(ctx context.Context, tree *summary.Tree, parentHandle string) (string, error) {
	names := make([]string, 0, len(tree.Entries))
	for name := range tree.Entries {
		names = append(names, name)
	}
	sort.Strings(names)

	// Blobs first, in parallel across siblings.
	blobSHAs := make(map[string]string)
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		merr *multierror.Error
	)
	for _, name := range names {
		blob, ok := tree.Entries[name].(*summary.Blob)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(name string, blob *summary.Blob) {
			defer wg.Done()
			sha, err := u.storage.CreateBlob(ctx, blob.Content, blob.Encoding)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("uploading blob %q: %w", name, err))
				return
			}
			blobSHAs[name] = sha
		}(name, blob)
	}
	wg.Wait()
	if err := merr.ErrorOrNil(); err != nil {
		return "", err
	}

	entries := make([]gitstore.TreeEntry, 0, len(names))
	for _, rawName := range names {
		name := strings.ReplaceAll(rawName, "/", "")
		if name == "" {
			return "", neterror.Newf(http.StatusBadRequest,
				"summary node name %q is empty after separator stripping", rawName)
		}

		switch node := tree.Entries[rawName].(type) {
		case *summary.Blob:
			entries = append(entries, gitstore.TreeEntry{
				Path: name,
				Mode: gitstore.ModeBlob,
				Type: "blob",
				SHA:  blobSHAs[rawName],
			})

		case *summary.Tree:
			sha, err := u.writeTree(ctx, node, parentHandle)
			if err != nil {
				return "", err
			}
			entries = append(entries, gitstore.TreeEntry{
				Path: name,
				Mode: gitstore.ModeTree,
				Type: "tree",
				SHA:  sha,
			})

		case *summary.Handle:
			sha, err := u.resolveHandle(ctx, parentHandle, node)
			if err != nil {
				return "", err
			}
			mode, typ := gitstore.ModeTree, "tree"
			if node.HandleType == summary.TypeBlob {
				mode, typ = gitstore.ModeBlob, "blob"
			}
			entries = append(entries, gitstore.TreeEntry{
				Path: name,
				Mode: mode,
				Type: typ,
				SHA:  sha,
			})

		default:
			return "", neterror.Newf(http.StatusBadRequest,
				"summary node %q has unknown kind", rawName)
		}
	}

	sha, err := u.storage.CreateTree(ctx, entries)
	if err != nil {
		return "", fmt.Errorf("creating tree: %w", err)
	}
	return sha, nil
}

// resolveHandle walks the parent summary's trees to the object the handle
// references and returns its sha.
func (u *TreeUploader) resolveHandle(ctx context.Context, parentHandle string, h *summary.Handle) (string, error) {
	if h.Embedded {
		// Already a resolved object id.
		if h.Handle == "" {
			return "", neterror.New(http.StatusBadRequest, "embedded summary handle has empty id")
		}
		return h.Handle, nil
	}
	if parentHandle == "" {
		return "", neterror.New(http.StatusBadRequest,
			"summary tree contains a handle but no parent handle was provided")
	}

	path := strings.Trim(h.Handle, "/")
	if path == "" {
		return "", neterror.New(http.StatusBadRequest, "summary handle has empty path")
	}
	segments := strings.Split(path, "/")

	current := parentHandle
	for i, segment := range segments {
		tree, err := u.storage.GetTree(ctx, current, false)
		if err != nil {
			return "", fmt.Errorf("resolving handle %q: %w", h.Handle, err)
		}

		var found *gitstore.TreeEntry
		for j := range tree.Entries {
			if tree.Entries[j].Path == segment {
				found = &tree.Entries[j]
				break
			}
		}
		if found == nil {
			return "", neterror.Newf(http.StatusNotFound,
				"handle path %q not present in parent summary %s", h.Handle, parentHandle)
		}

		if i == len(segments)-1 {
			return found.SHA, nil
		}
		if found.Type != "tree" {
			return "", neterror.Newf(http.StatusBadRequest,
				"handle path %q crosses non-tree entry %q", h.Handle, segment)
		}
		current = found.SHA
	}

	// Unreachable: the loop returns on the last segment.
	return "", neterror.Newf(http.StatusNotFound, "handle path %q not resolved", h.Handle)
}
