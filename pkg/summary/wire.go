package summary

// Wire forms exchanged with the storage service. Both are JSON-serializable.
//
// The nested WholeTree is the upload form: each entry is either a value entry
// carrying inline content or a handle entry referencing content from a prior
// summary. The FlatSummary is the download form: a flattened entry list with
// a separate blob collection.

// EntryKind discriminates whole-tree entries between inline values and
// handle references.
type EntryKind string

const (
	EntryValue  EntryKind = "value"
	EntryHandle EntryKind = "handle"
)

// WholeTree is the nested wire representation of a summary tree.
type WholeTree struct {
	Type    SummaryType      `json:"type"` // always TypeTree
	Entries []WholeTreeEntry `json:"entries"`
}

// WholeTreeEntry is one node of a WholeTree.
//
// Kind selects the variant: a value entry populates Tree or Blob according
// to Type; a handle entry populates ID with the resolved path of existing
// content.
type WholeTreeEntry struct {
	Kind EntryKind   `json:"kind"`
	Path string      `json:"path"`
	Type SummaryType `json:"type"` // TypeTree or TypeBlob

	// ID is set on handle entries: "<parentHandle>/<path in parent summary>".
	ID string `json:"id,omitempty"`

	// Tree and Blob are set on value entries, according to Type.
	Tree *WholeTree `json:"tree,omitempty"`
	Blob *WholeBlob `json:"blob,omitempty"`

	Unreferenced bool `json:"unreferenced,omitempty"`
}

// WholeBlob is inline blob content inside a WholeTree.
type WholeBlob struct {
	Content  string       `json:"content"`
	Encoding BlobEncoding `json:"encoding"`
}

// WholePayload is the single-request upload body used by the whole-summary
// upload strategy.
type WholePayload struct {
	// Type is "container" for client (root) summaries and "channel" for
	// service-internal partial summaries.
	Type           string           `json:"type"`
	Message        string           `json:"message,omitempty"`
	SequenceNumber int64            `json:"sequenceNumber,omitempty"`
	Entries        []WholeTreeEntry `json:"entries"`
}

// FlatSummary is the flattened wire representation returned by summary
// reads: all tree entries in one list, blob contents in a side collection,
// and the summary's sequence number on the tree header.
type FlatSummary struct {
	ID    string            `json:"id"`
	Trees []FlatSummaryTree `json:"trees"`
	Blobs []FlatBlob        `json:"blobs,omitempty"`
}

// FlatSummaryTree is the flattened entry list for one summary tree.
type FlatSummaryTree struct {
	ID             string          `json:"id"`
	SequenceNumber int64           `json:"sequenceNumber"`
	Entries        []FlatTreeEntry `json:"entries"`
}

// FlatTreeEntry is one flattened node: a full path, a type, and for blobs
// the id of the content in the blob collection.
type FlatTreeEntry struct {
	Path string      `json:"path"`
	Type SummaryType `json:"type"`
	ID   string      `json:"id,omitempty"` // blob entries only
}

// FlatBlob is one entry of the blob collection.
type FlatBlob struct {
	ID       string       `json:"id"`
	Content  string       `json:"content"`
	Encoding BlobEncoding `json:"encoding"`
	Size     int64        `json:"size"`
}
