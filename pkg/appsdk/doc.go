// Package appsdk holds the wire types for Atrium's JSON endpoints and a
// small HTTP client used by the end-to-end tests.
package appsdk
