// Package auth issues and validates the JWT access tokens accepted by the
// storage service. Tokens are scoped to a tenant/document pair and carry
// permission scopes checked on every request.
package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Scope is a permission tag carried in token claims.
type Scope string

const (
	// ScopeDocRead permits reading document content and summaries.
	ScopeDocRead Scope = "doc:read"

	// ScopeDocWrite permits writing document content.
	ScopeDocWrite Scope = "doc:write"

	// ScopeSummaryWrite permits uploading summaries.
	ScopeSummaryWrite Scope = "summary:write"
)

// DefaultScopes grant full access to a document.
var DefaultScopes = []Scope{ScopeDocRead, ScopeDocWrite, ScopeSummaryWrite}

// User identifies the token holder.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Claims are the recognized token claims. Claims are created at token
// generation time, validated on each request, and never mutated.
type Claims struct {
	TenantID   string  `json:"tenantId"`
	DocumentID string  `json:"documentId"`
	Scopes     []Scope `json:"scopes,omitempty"`
	User       *User   `json:"user,omitempty"`
	Ver        string  `json:"ver,omitempty"`

	jwt.RegisteredClaims
}

// HasScope reports whether the claims carry the given scope.
func (c *Claims) HasScope(scope Scope) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// CanRead reports whether the claims permit reads.
func (c *Claims) CanRead() bool { return c.HasScope(ScopeDocRead) }

// CanWrite reports whether the claims permit document writes.
func (c *Claims) CanWrite() bool { return c.HasScope(ScopeDocWrite) }

// CanSummarize reports whether the claims permit summary uploads.
func (c *Claims) CanSummarize() bool { return c.HasScope(ScopeSummaryWrite) }
