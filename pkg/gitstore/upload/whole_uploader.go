package upload

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/scribe/pkg/neterror"
	"github.com/hashicorp-forge/scribe/pkg/summary"
)

// containerPayloadType marks client root summaries in the upload payload.
const containerPayloadType = "container"

// WholeUploader persists a summary tree as one wire payload: the tree is
// converted to the nested whole-summary form and sent in a single call,
// trading per-node granularity for one round trip.
//
// The returned handle addresses the committed summary and is interchangeable
// with handles produced by TreeUploader as a future parentHandle.
type WholeUploader struct {
	storage    Storage
	treePrefix string
	logger     hclog.Logger
}

var _ SummaryUploader = (*WholeUploader)(nil)

// NewWholeUploader creates a single-payload uploader. The tree is mounted
// under summary.DefaultTreePrefix when resolving handle paths.
func NewWholeUploader(storage Storage, logger hclog.Logger) *WholeUploader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &WholeUploader{
		storage:    storage,
		treePrefix: summary.DefaultTreePrefix,
		logger:     logger.Named("whole-uploader"),
	}
}

// UploadSummary implements SummaryUploader.
func (u *WholeUploader) UploadSummary(ctx context.Context, tree *summary.Tree, parentHandle string, opts Options) (string, error) {
	if tree == nil {
		return "", neterror.New(http.StatusBadRequest, "summary tree is nil")
	}

	whole, err := summary.ConvertToWholeTree(parentHandle, tree, "", u.treePrefix)
	if err != nil {
		return "", err
	}

	payload := &summary.WholePayload{
		Type:           containerPayloadType,
		Message:        opts.Message,
		SequenceNumber: opts.SequenceNumber,
		Entries:        whole.Entries,
	}

	handle, err := u.storage.CreateSummary(ctx, payload, opts.Initial)
	if err != nil {
		return "", err
	}

	u.logger.Debug("uploaded whole summary",
		"handle", handle,
		"parent_handle", parentHandle,
		"sequence_number", opts.SequenceNumber,
		"initial", opts.Initial,
	)
	return handle, nil
}
