package gitstore

import "net/http"

// RequestEncoder rewrites an outgoing request for transports that cannot
// carry arbitrary HTTP methods or headers.
//
// The service also accepts a "RestLess" form where the real method, headers,
// and body are folded into a single urlencoded POST body under the reserved
// field names "method", "header", and "body". Encoders implementing that
// contract live with the transport that needs them; the client itself sends
// plain requests when no encoder is configured.
type RequestEncoder interface {
	// Encode returns the request to send in place of req. It may return
	// req unchanged.
	Encode(req *http.Request) (*http.Request, error)
}
