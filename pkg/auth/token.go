package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hashicorp-forge/scribe/pkg/neterror"
)

// claimsVersion is stamped into every generated token.
const claimsVersion = "1.0"

// GenerateToken mints an HS256-signed JWT for a tenant/document pair. The
// token carries the given scopes and expires after lifetime.
func GenerateToken(tenantID, documentID, key string, scopes []Scope, user *User, lifetime time.Duration) (string, error) {
	if tenantID == "" || documentID == "" {
		return "", neterror.New(http.StatusBadRequest, "tenant id and document id are required")
	}
	if key == "" {
		return "", neterror.New(http.StatusBadRequest, "signing key is required")
	}
	if lifetime <= 0 {
		return "", neterror.New(http.StatusBadRequest, "token lifetime must be positive")
	}

	now := time.Now()
	claims := &Claims{
		TenantID:   tenantID,
		DocumentID: documentID,
		Scopes:     scopes,
		User:       user,
		Ver:        claimsVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateTokenClaims decodes a token and checks that its claims match the
// expected document and tenant identity. It does not verify the signature;
// use VerifyToken where the signing key is available. The decoded claims are
// returned on success.
func ValidateTokenClaims(token, documentID, tenantID string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, neterror.Newf(http.StatusUnauthorized, "malformed token: %v", err)
	}
	return checkIdentity(claims, documentID, tenantID)
}

// VerifyToken fully verifies a token: HS256 signature against key, then the
// tenant/document identity check. Expiration is checked separately via
// ValidateTokenClaimsExpiration so callers can enforce a lifetime cap.
func VerifyToken(token, key, documentID, tenantID string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(key), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, neterror.Newf(http.StatusUnauthorized, "invalid token: %v", err)
	}
	return checkIdentity(claims, documentID, tenantID)
}

func checkIdentity(claims *Claims, documentID, tenantID string) (*Claims, error) {
	if claims.TenantID == "" || claims.DocumentID == "" {
		return nil, neterror.New(http.StatusUnauthorized, "token is missing tenant or document claims")
	}
	if claims.TenantID != tenantID {
		return nil, neterror.Newf(http.StatusForbidden,
			"token tenant %q does not match %q", claims.TenantID, tenantID)
	}
	if claims.DocumentID != documentID {
		return nil, neterror.Newf(http.StatusForbidden,
			"token document %q does not match %q", claims.DocumentID, documentID)
	}
	return claims, nil
}

// ValidateTokenClaimsExpiration checks the token lifetime: iat and exp must
// both be present, exp must be after iat, and the total lifetime must not
// exceed maxTokenLifetimeSec. The token lifetime is returned in milliseconds.
func ValidateTokenClaimsExpiration(claims *Claims, maxTokenLifetimeSec int64) (int64, error) {
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return 0, neterror.New(http.StatusUnauthorized, "token is missing iat or exp claims")
	}

	iat := claims.IssuedAt.Unix()
	exp := claims.ExpiresAt.Unix()
	if exp <= iat {
		return 0, neterror.New(http.StatusUnauthorized, "token expiry precedes issuance")
	}

	lifetimeSec := exp - iat
	if lifetimeSec > maxTokenLifetimeSec {
		return 0, neterror.Newf(http.StatusUnauthorized,
			"token lifetime %ds exceeds maximum %ds", lifetimeSec, maxTokenLifetimeSec)
	}

	return lifetimeSec * 1000, nil
}
