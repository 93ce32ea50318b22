// Package http implements the HTTP request handlers for the lcpipe status
// server. It provides a thin layer between HTTP transport and the pipeline
// core, keeping handlers focused solely on HTTP concerns.
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Core (validator/transformer)
//	                                              ↓
//	HTTP Response ← Handler ← Core Result ←──────┘
//
// # Handler Structure
//
// Each handler follows this pattern:
//
//	func (h *Handler) HandleSomething(w http.ResponseWriter, r *http.Request) {
//	    // 1. Parse and validate request
//	    // 2. Call the core synchronously
//	    // 3. Render JSON, or delegate errors to the RFC 7807 error handler
//	}
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details: a missing dataset directory
// renders a 404 problem, an unreadable dataset a 422 problem, and anything
// unexpected a 500 problem. Validation outcomes (a failing check) are not
// errors; they render as a 200 response with overall_pass=false.
package http
