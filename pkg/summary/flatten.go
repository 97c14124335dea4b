package summary

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/hashicorp-forge/scribe/pkg/neterror"
)

// FlattenWholeTree converts a nested whole summary tree into the flat wire
// form, mirroring what the service does when materializing an uploaded
// summary for reads. Blob and tree ids are content-addressed (git-style
// SHA-1), so identical content flattens to identical ids.
//
// The tree is mounted under mountPrefix when non-empty (the inverse of the
// prefix NormalizeFlatSummary strips). Handle entries cannot be flattened
// without the parent summary's store and are rejected.
func FlattenWholeTree(tree *WholeTree, mountPrefix string, sequenceNumber int64) (*FlatSummary, error) {
	if tree == nil {
		return nil, neterror.New(http.StatusBadRequest, "whole summary tree is nil")
	}

	f := &flattener{blobIndex: map[string]int{}}

	entries := []FlatTreeEntry{}
	if mountPrefix != "" {
		entries = append(entries, FlatTreeEntry{Path: mountPrefix, Type: TypeTree})
	}
	children, rootID, err := f.flatten(tree, mountPrefix)
	if err != nil {
		return nil, err
	}
	entries = append(entries, children...)

	return &FlatSummary{
		ID: rootID,
		Trees: []FlatSummaryTree{{
			ID:             rootID,
			SequenceNumber: sequenceNumber,
			Entries:        entries,
		}},
		Blobs: f.blobs,
	}, nil
}

type flattener struct {
	blobs     []FlatBlob
	blobIndex map[string]int
}

// flatten emits parent-first flat entries for tree's children and returns
// the tree's content id.
func (f *flattener) flatten(tree *WholeTree, path string) ([]FlatTreeEntry, string, error) {
	entries := []FlatTreeEntry{}
	idLines := make([]string, 0, len(tree.Entries))

	sorted := make([]WholeTreeEntry, len(tree.Entries))
	copy(sorted, tree.Entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	for _, entry := range sorted {
		if entry.Kind == EntryHandle {
			return nil, "", neterror.Newf(http.StatusBadRequest,
				"cannot flatten handle entry %q without the parent summary", entry.Path)
		}
		entryPath := BuildTreePath(path, entry.Path)

		switch entry.Type {
		case TypeTree:
			if entry.Tree == nil {
				return nil, "", neterror.Newf(http.StatusBadRequest,
					"tree value entry %q has no tree", entryPath)
			}
			entries = append(entries, FlatTreeEntry{Path: entryPath, Type: TypeTree})
			children, id, err := f.flatten(entry.Tree, entryPath)
			if err != nil {
				return nil, "", err
			}
			entries = append(entries, children...)
			idLines = append(idLines, fmt.Sprintf("tree %s %s", entry.Path, id))

		case TypeBlob:
			if entry.Blob == nil {
				return nil, "", neterror.Newf(http.StatusBadRequest,
					"blob value entry %q has no blob", entryPath)
			}
			id, err := f.addBlob(entry.Blob)
			if err != nil {
				return nil, "", fmt.Errorf("flattening blob %q: %w", entryPath, err)
			}
			entries = append(entries, FlatTreeEntry{Path: entryPath, Type: TypeBlob, ID: id})
			idLines = append(idLines, fmt.Sprintf("blob %s %s", entry.Path, id))

		default:
			return nil, "", neterror.Newf(http.StatusBadRequest,
				"value entry %q has unknown type %q", entryPath, entry.Type)
		}
	}

	return entries, hashTree(idLines), nil
}

func (f *flattener) addBlob(blob *WholeBlob) (string, error) {
	raw, err := DecodeBlobContent(blob.Content, blob.Encoding)
	if err != nil {
		return "", err
	}
	id := hashBlob(raw)
	if _, ok := f.blobIndex[id]; !ok {
		f.blobIndex[id] = len(f.blobs)
		f.blobs = append(f.blobs, FlatBlob{
			ID:       id,
			Content:  blob.Content,
			Encoding: blob.Encoding,
			Size:     int64(len(raw)),
		})
	}
	return id, nil
}

// hashBlob computes the git blob object id for raw content.
func hashBlob(raw []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(raw))
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil))
}

// hashTree derives a tree id from its child names and ids.
func hashTree(lines []string) string {
	h := sha1.New()
	h.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}
