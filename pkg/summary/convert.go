package summary

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/hashicorp-forge/scribe/pkg/neterror"
)

// DefaultTreePrefix is the application container segment stripped from flat
// summary paths by default. Callers pass it explicitly; there is no implicit
// global.
const DefaultTreePrefix = ".app"

// protocolAttributesPath locates the metadata blob consulted when a flat
// summary's tree header carries no sequence number.
const (
	protocolTreeName       = ".protocol"
	protocolAttributesName = "attributes"
)

// ConvertToWholeTree walks a hierarchical summary tree and produces the
// nested wire form used for uploads.
//
// The result is always the full tree, never a partial diff: structural
// sharing with the parent summary is expressed only through handle entries,
// not by omission. Handle entries are resolved against parentHandle, the id
// of the previously committed summary; rootNodeName is the name the root is
// mounted under in the committed tree (typically DefaultTreePrefix).
func ConvertToWholeTree(parentHandle string, tree *Tree, path, rootNodeName string) (*WholeTree, error) {
	if tree == nil {
		return nil, neterror.New(http.StatusBadRequest, "summary tree is nil")
	}

	whole := &WholeTree{Type: TypeTree, Entries: []WholeTreeEntry{}}

	names := make([]string, 0, len(tree.Entries))
	for name := range tree.Entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, rawName := range names {
		obj := tree.Entries[rawName]

		// Separators are not legal inside node names; strip them so the
		// resulting wire paths decompose cleanly.
		name := strings.ReplaceAll(rawName, pathSeparator, "")
		if name == "" {
			return nil, neterror.Newf(http.StatusBadRequest,
				"summary node name %q is empty after separator stripping", rawName)
		}
		currentPath := BuildTreePath(path, name)

		switch node := obj.(type) {
		case *Tree:
			subtree, err := ConvertToWholeTree(parentHandle, node, currentPath, rootNodeName)
			if err != nil {
				return nil, err
			}
			whole.Entries = append(whole.Entries, WholeTreeEntry{
				Kind:         EntryValue,
				Path:         name,
				Type:         TypeTree,
				Tree:         subtree,
				Unreferenced: node.Unreferenced,
			})

		case *Blob:
			whole.Entries = append(whole.Entries, WholeTreeEntry{
				Kind: EntryValue,
				Path: name,
				Type: TypeBlob,
				Blob: encodeBlob(node),
			})

		case *Handle:
			id, err := resolveHandleID(parentHandle, rootNodeName, node)
			if err != nil {
				return nil, err
			}
			if node.HandleType != TypeTree && node.HandleType != TypeBlob {
				return nil, neterror.Newf(http.StatusBadRequest,
					"handle at %q has invalid handle type %q", currentPath, node.HandleType)
			}
			whole.Entries = append(whole.Entries, WholeTreeEntry{
				Kind: EntryHandle,
				Path: name,
				Type: node.HandleType,
				ID:   id,
			})

		default:
			return nil, neterror.Newf(http.StatusBadRequest,
				"summary node at %q has unknown kind", currentPath)
		}
	}

	return whole, nil
}

// resolveHandleID turns a handle's relative path into the id of existing
// content. Embedded handles already carry a fully resolved id.
func resolveHandleID(parentHandle, rootNodeName string, h *Handle) (string, error) {
	if h.Embedded {
		if h.Handle == "" {
			return "", neterror.New(http.StatusBadRequest, "embedded summary handle has empty id")
		}
		return h.Handle, nil
	}
	if parentHandle == "" {
		return "", neterror.New(http.StatusBadRequest,
			"summary tree contains a handle but no parent handle was provided")
	}
	if h.Handle == "" {
		return "", neterror.New(http.StatusBadRequest, "summary handle has empty path")
	}
	return BuildTreePath(parentHandle, rootNodeName, h.Handle), nil
}

func encodeBlob(b *Blob) *WholeBlob {
	encoding := b.Encoding
	if encoding == "" {
		encoding = EncodingUTF8
	}
	content := string(b.Content)
	if encoding == EncodingBase64 {
		content = base64.StdEncoding.EncodeToString(b.Content)
	}
	return &WholeBlob{Content: content, Encoding: encoding}
}

// DecodeBlobContent decodes wire blob content into raw bytes.
func DecodeBlobContent(content string, encoding BlobEncoding) ([]byte, error) {
	switch encoding {
	case EncodingBase64:
		raw, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("decoding base64 blob content: %w", err)
		}
		return raw, nil
	case EncodingUTF8, "":
		return []byte(content), nil
	default:
		return nil, neterror.Newf(http.StatusBadRequest, "unknown blob encoding %q", encoding)
	}
}

// NormalizeFlatSummary builds the consumer-facing form of a flat summary: a
// nested snapshot tree, decoded blob contents keyed by id, and the sequence
// number.
//
// treePrefixToRemove (typically DefaultTreePrefix) is stripped from every
// entry path: an entry equal to the prefix is the container node itself and
// its children attach to the root; entries under "<prefix>/" are trimmed;
// entries outside the prefix pass through unchanged. A blob entry whose id is
// absent from the blob collection is an error, as is a path that does not
// decompose cleanly.
func NormalizeFlatSummary(flat *FlatSummary, treePrefixToRemove string) (*NormalizedWholeSummary, error) {
	if flat == nil || len(flat.Trees) == 0 {
		return nil, neterror.New(http.StatusNotFound, "flat summary contains no trees")
	}
	flatTree := flat.Trees[0]

	blobs := make(map[string][]byte, len(flat.Blobs))
	for _, b := range flat.Blobs {
		raw, err := DecodeBlobContent(b.Content, b.Encoding)
		if err != nil {
			return nil, fmt.Errorf("decoding blob %s: %w", b.ID, err)
		}
		blobs[b.ID] = raw
	}

	root := NewSnapshotTree()
	root.ID = flatTree.ID
	for _, entry := range flatTree.Entries {
		path, skip := stripTreePrefix(entry.Path, treePrefixToRemove)
		if skip {
			continue
		}
		if path == "" {
			return nil, neterror.Newf(http.StatusBadRequest,
				"flat summary entry path %q is empty after prefix removal", entry.Path)
		}

		parent, name, err := descend(root, path)
		if err != nil {
			return nil, err
		}

		switch entry.Type {
		case TypeTree:
			if _, ok := parent.Trees[name]; !ok {
				parent.Trees[name] = NewSnapshotTree()
			}
		case TypeBlob:
			if entry.ID == "" {
				return nil, neterror.Newf(http.StatusBadRequest,
					"flat summary blob entry %q has no id", entry.Path)
			}
			if _, ok := blobs[entry.ID]; !ok {
				return nil, neterror.Newf(http.StatusNotFound,
					"flat summary entry %q references missing blob %s", entry.Path, entry.ID)
			}
			parent.Blobs[name] = entry.ID
		default:
			return nil, neterror.Newf(http.StatusBadRequest,
				"flat summary entry %q has unknown type %q", entry.Path, entry.Type)
		}
	}

	seq := flatTree.SequenceNumber
	if seq == 0 {
		if fromBlob, ok := sequenceNumberFromAttributes(root, blobs); ok {
			seq = fromBlob
		}
	}

	return &NormalizedWholeSummary{
		SnapshotTree:   root,
		Blobs:          blobs,
		SequenceNumber: seq,
	}, nil
}

// stripTreePrefix applies the prefix rule to one entry path. The second
// return value is true when the entry is the container node itself and
// should be skipped.
func stripTreePrefix(path, prefix string) (string, bool) {
	if prefix == "" {
		return path, false
	}
	if path == prefix {
		return "", true
	}
	if strings.HasPrefix(path, prefix+pathSeparator) {
		return strings.TrimPrefix(path, prefix+pathSeparator), false
	}
	return path, false
}

// descend walks (creating as needed) the snapshot tree to the parent node of
// path, returning the parent and the final segment name.
func descend(root *SnapshotTree, path string) (*SnapshotTree, string, error) {
	segments := strings.Split(path, pathSeparator)
	node := root
	for _, seg := range segments[:len(segments)-1] {
		if seg == "" {
			return nil, "", neterror.Newf(http.StatusBadRequest,
				"flat summary path %q has an empty segment", path)
		}
		child, ok := node.Trees[seg]
		if !ok {
			child = NewSnapshotTree()
			node.Trees[seg] = child
		}
		node = child
	}
	name := segments[len(segments)-1]
	if name == "" {
		return nil, "", neterror.Newf(http.StatusBadRequest,
			"flat summary path %q has an empty segment", path)
	}
	return node, name, nil
}

// sequenceNumberFromAttributes falls back to the protocol attributes blob
// when the flat tree header carries no sequence number.
func sequenceNumberFromAttributes(root *SnapshotTree, blobs map[string][]byte) (int64, bool) {
	protocol, ok := root.Trees[protocolTreeName]
	if !ok {
		return 0, false
	}
	blobID, ok := protocol.Blobs[protocolAttributesName]
	if !ok {
		return 0, false
	}
	raw, ok := blobs[blobID]
	if !ok {
		return 0, false
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return 0, false
	}
	var attributes struct {
		SequenceNumber int64 `mapstructure:"sequenceNumber"`
	}
	if err := mapstructure.WeakDecode(decoded, &attributes); err != nil {
		return 0, false
	}
	return attributes.SequenceNumber, attributes.SequenceNumber != 0
}
