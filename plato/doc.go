// Package plato is a client for the Plato templating microservice. It
// covers the full template lifecycle (list, inspect, create, update) and
// document composition (render a stored template with caller-supplied
// field data into PDF, PNG or any other MIME type the service offers).
//
// # Client creation
//
// A Client is built from the service host plus functional options:
//
//	client := plato.New("https://plato.example.com",
//	    plato.WithMaxRetries(5),
//	    plato.WithTimeout(15*time.Second),
//	)
//
// The Client is immutable after construction and safe for concurrent use.
//
// # Retry behavior
//
// Transport-level failures (the request never reached the service, or no
// response arrived) are retried with exponential backoff, up to the
// configured retry budget (default 3 retries, so 4 attempts). HTTP error
// responses are never retried: a 4xx will not succeed on a second try,
// and a 5xx may already have mutated state on the server.
//
// # Error handling
//
// Failures surface as typed errors matched with errors.Is:
//
//   - ErrUnavailable: the retry budget is exhausted; the returned
//     *UnavailableError carries the attempt count and the last
//     transport error.
//   - ErrNotFound: the referenced template does not exist (404).
//   - ErrValidation: the service rejected the schema or archive (400,
//     422).
//
// Every other non-2xx response is an *APIError carrying the status code
// and response body for diagnostics.
package plato
