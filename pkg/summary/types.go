// Package summary holds the document summary data model and the conversions
// between its in-memory hierarchical form and the two wire forms understood
// by the storage service: the nested whole summary tree and the flat whole
// summary.
package summary

// SummaryType discriminates summary tree entries. Entries are never
// classified by structural inspection; the kind field is authoritative.
type SummaryType string

const (
	TypeTree   SummaryType = "tree"
	TypeBlob   SummaryType = "blob"
	TypeHandle SummaryType = "handle"
)

// BlobEncoding describes how blob content is encoded on the wire.
type BlobEncoding string

const (
	EncodingUTF8   BlobEncoding = "utf-8"
	EncodingBase64 BlobEncoding = "base64"
)

// Object is a single entry in a SummaryTree: a sub-tree, a blob, or a handle
// referencing previously committed content.
type Object interface {
	Kind() SummaryType
}

// Tree is the hierarchical in-memory summary form. Entries map a path
// segment name to its object. Path separators are not legal inside names;
// the converter strips them defensively when building wire paths.
type Tree struct {
	// Entries maps node name to entry. Iteration order is normalized by
	// sorting names, so conversions are deterministic.
	Entries map[string]Object

	// Unreferenced marks trees that are retained but no longer reachable
	// from the document root.
	Unreferenced bool
}

func (*Tree) Kind() SummaryType { return TypeTree }

// Blob is raw content plus its wire encoding.
type Blob struct {
	Content  []byte
	Encoding BlobEncoding
}

func (*Blob) Kind() SummaryType { return TypeBlob }

// Handle references a path inside a previously committed summary, letting an
// unchanged subtree or blob be reused without re-uploading it. The referenced
// path must have existed in the summary identified by the parent handle.
type Handle struct {
	// HandleType is the kind of object the handle resolves to (tree or
	// blob). It must not be TypeHandle.
	HandleType SummaryType

	// Handle is the path of the referenced node, relative to the root of
	// the parent summary.
	Handle string

	// Embedded marks handles whose Handle value is already a fully
	// resolved id within a previously uploaded whole summary; the
	// converter emits it verbatim instead of prefixing the parent handle.
	Embedded bool
}

func (*Handle) Kind() SummaryType { return TypeHandle }

// SnapshotTree is the nested in-memory tree reconstructed from a flat wire
// summary. Blob values are ids into the accompanying blob collection.
type SnapshotTree struct {
	ID    string                   `json:"id,omitempty"`
	Blobs map[string]string        `json:"blobs"`
	Trees map[string]*SnapshotTree `json:"trees"`
}

// NewSnapshotTree returns an empty snapshot tree node.
func NewSnapshotTree() *SnapshotTree {
	return &SnapshotTree{
		Blobs: map[string]string{},
		Trees: map[string]*SnapshotTree{},
	}
}

// NormalizedWholeSummary is the decoded consumer-facing form of a flat
// summary: the unflattened snapshot tree, decoded blob contents keyed by id,
// and the summary's sequence number.
type NormalizedWholeSummary struct {
	SnapshotTree   *SnapshotTree
	Blobs          map[string][]byte
	SequenceNumber int64
}
