// Package upload persists summary trees to the storage service. Two
// interchangeable strategies are provided: node-by-node git writes
// (TreeUploader) and a single whole-summary call (WholeUploader).
//
// Both strategies return a handle that a later upload can pass as
// parentHandle so unchanged subtrees are referenced instead of re-uploaded.
package upload

import (
	"context"

	"github.com/hashicorp-forge/scribe/pkg/gitstore"
	"github.com/hashicorp-forge/scribe/pkg/summary"
)

// Options tune a single summary upload.
type Options struct {
	// Initial marks the document's first summary.
	Initial bool

	// Message is the commit-style message recorded with the summary.
	Message string

	// SequenceNumber is the document sequence number the summary captures.
	SequenceNumber int64
}

// SummaryUploader persists a summary tree and returns its handle.
//
// Failure semantics: an error on any write aborts the whole upload; no
// partial commit is surfaced. Retries are the transport's responsibility.
type SummaryUploader interface {
	UploadSummary(ctx context.Context, tree *summary.Tree, parentHandle string, opts Options) (string, error)
}

// Storage is the slice of the storage surface the uploaders need.
// *gitstore.DocumentClient satisfies it.
type Storage interface {
	CreateBlob(ctx context.Context, content []byte, encoding summary.BlobEncoding) (string, error)
	CreateTree(ctx context.Context, entries []gitstore.TreeEntry) (string, error)
	GetTree(ctx context.Context, sha string, recursive bool) (*gitstore.Tree, error)
	CreateSummary(ctx context.Context, payload *summary.WholePayload, initial bool) (string, error)
}

var _ Storage = (*gitstore.DocumentClient)(nil)
