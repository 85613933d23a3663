// Package ecode defines the business error codes carried in API error
// bodies and maps them to HTTP statuses.
//
// Error codes follow a simple numbering scheme:
//   - 0: Success (OK)
//   - -400 to -499: Request and resource errors
//   - -500+: Server errors
//
// Retrieve human-readable messages and statuses:
//
//	message := ecode.Text(ecode.NotFound)
//	// Returns: "Resource not found"
//
//	status := ecode.ToHTTPStatus(ecode.NotFound)
//	// Returns: 404
package ecode
