package gitstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hashicorp-forge/scribe/pkg/summary"
)

// latestSummaryID addresses the most recent committed summary.
const latestSummaryID = "latest"

type createSummaryResponse struct {
	ID string `json:"id"`
}

func (d *DocumentClient) summariesPath(parts ...string) string {
	p := fmt.Sprintf("/repos/%s/%s/summaries",
		url.PathEscape(d.id.Tenant()), url.PathEscape(d.id.Document()))
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// CreateSummary uploads a whole summary in a single call and returns the
// handle of the committed summary. initial marks a document's first summary.
func (d *DocumentClient) CreateSummary(ctx context.Context, payload *summary.WholePayload, initial bool) (string, error) {
	path := d.summariesPath()
	if initial {
		path += "?initial=true"
	}

	var resp createSummaryResponse
	if err := d.client.doRequest(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return "", fmt.Errorf("creating summary: %w", err)
	}

	d.logger.Debug("created whole summary",
		"handle", resp.ID,
		"sequence_number", payload.SequenceNumber,
		"initial", initial,
	)
	return resp.ID, nil
}

// GetSummary fetches a committed summary in flat wire form by its handle.
func (d *DocumentClient) GetSummary(ctx context.Context, id string) (*summary.FlatSummary, error) {
	var flat summary.FlatSummary
	if err := d.client.doRequest(ctx, http.MethodGet, d.summariesPath(url.PathEscape(id)), nil, &flat); err != nil {
		return nil, fmt.Errorf("getting summary %s: %w", id, err)
	}
	return &flat, nil
}

// GetLatestSummary fetches the most recent committed summary.
func (d *DocumentClient) GetLatestSummary(ctx context.Context) (*summary.FlatSummary, error) {
	return d.GetSummary(ctx, latestSummaryID)
}

// DeleteSummary removes the document's summary data. With soft set, the
// service retains the data for recovery.
func (d *DocumentClient) DeleteSummary(ctx context.Context, soft bool) error {
	path := d.summariesPath()
	if soft {
		path += "?soft=true"
	}
	if err := d.client.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting summary: %w", err)
	}
	return nil
}

// DownloadSummary fetches the latest summary and normalizes it into the
// consumer-facing form, stripping treePrefix (summary.DefaultTreePrefix for
// the standard layout).
func (d *DocumentClient) DownloadSummary(ctx context.Context, treePrefix string) (*summary.NormalizedWholeSummary, error) {
	flat, err := d.GetLatestSummary(ctx)
	if err != nil {
		return nil, err
	}
	return summary.NormalizeFlatSummary(flat, treePrefix)
}
