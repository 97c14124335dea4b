// Package docid defines the tenant/document identity used to address
// documents in the storage service.
package docid

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DocumentID is a fully-qualified document identifier: the owning tenant
// plus the document name within that tenant.
//
// DocumentIDs serialize as "tenant/document". Neither component may be empty
// or contain a path separator.
type DocumentID struct {
	tenant   string
	document string
}

// New creates a DocumentID, validating both components.
func New(tenant, document string) (DocumentID, error) {
	if tenant == "" || document == "" {
		return DocumentID{}, fmt.Errorf("tenant and document are required")
	}
	if strings.Contains(tenant, "/") || strings.Contains(document, "/") {
		return DocumentID{}, fmt.Errorf("tenant and document must not contain %q", "/")
	}
	return DocumentID{tenant: tenant, document: document}, nil
}

// MustNew creates a DocumentID, panicking on error. Useful for test fixtures
// where the components are known valid.
func MustNew(tenant, document string) DocumentID {
	id, err := New(tenant, document)
	if err != nil {
		panic(fmt.Sprintf("invalid document id: %v", err))
	}
	return id
}

// Parse parses a "tenant/document" string.
func Parse(s string) (DocumentID, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return DocumentID{}, fmt.Errorf("document id %q must be tenant/document", s)
	}
	return New(parts[0], parts[1])
}

// Tenant returns the owning tenant id.
func (d DocumentID) Tenant() string { return d.tenant }

// Document returns the document name within the tenant.
func (d DocumentID) Document() string { return d.document }

// String returns the canonical "tenant/document" form.
func (d DocumentID) String() string {
	return d.tenant + "/" + d.document
}

// IsZero reports whether the id is unset.
func (d DocumentID) IsZero() bool {
	return d.tenant == "" && d.document == ""
}

// Equal reports whether two ids address the same document.
func (d DocumentID) Equal(other DocumentID) bool {
	return d == other
}

// MarshalJSON serializes the id as its "tenant/document" string.
func (d DocumentID) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DocumentID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("document id must be a string: %w", err)
	}
	if s == "" || s == "null" {
		*d = DocumentID{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NewDocumentName generates a random document name for newly created
// documents. Names are UUIDv4 strings, unique without coordination.
func NewDocumentName() string {
	return uuid.NewString()
}
