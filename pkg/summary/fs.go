package summary

import (
	"fmt"
	"net/http"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/hashicorp-forge/scribe/pkg/neterror"
)

// TreeFromFs reads a directory tree into a hierarchical summary tree. Files
// become blobs (binary content is marked base64 for the wire), directories
// become subtrees.
func TreeFromFs(fsys afero.Fs, dir string) (*Tree, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	tree := &Tree{Entries: map[string]Object{}}
	for _, info := range infos {
		name := info.Name()
		full := filepath.Join(dir, name)

		if info.IsDir() {
			subtree, err := TreeFromFs(fsys, full)
			if err != nil {
				return nil, err
			}
			tree.Entries[name] = subtree
			continue
		}

		content, err := afero.ReadFile(fsys, full)
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", full, err)
		}
		encoding := EncodingUTF8
		if !utf8.Valid(content) {
			encoding = EncodingBase64
		}
		tree.Entries[name] = &Blob{Content: content, Encoding: encoding}
	}
	return tree, nil
}

// WriteSnapshot materializes a normalized whole summary onto a filesystem,
// the download-side counterpart of TreeFromFs.
func WriteSnapshot(fsys afero.Fs, dir string, n *NormalizedWholeSummary) error {
	if n == nil || n.SnapshotTree == nil {
		return neterror.New(http.StatusBadRequest, "normalized summary has no snapshot tree")
	}
	return writeSnapshotTree(fsys, dir, n.SnapshotTree, n.Blobs)
}

func writeSnapshotTree(fsys afero.Fs, dir string, tree *SnapshotTree, blobs map[string][]byte) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	for name, blobID := range tree.Blobs {
		content, ok := blobs[blobID]
		if !ok {
			return neterror.Newf(http.StatusNotFound,
				"snapshot blob %q references missing content %s", name, blobID)
		}
		if err := afero.WriteFile(fsys, filepath.Join(dir, name), content, 0o644); err != nil {
			return fmt.Errorf("writing file %s: %w", name, err)
		}
	}

	for name, subtree := range tree.Trees {
		if err := writeSnapshotTree(fsys, filepath.Join(dir, name), subtree, blobs); err != nil {
			return err
		}
	}
	return nil
}
