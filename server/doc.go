// Package server implements the LAN-facing HTTP/1.1 front end of lanshare.
//
// It speaks a deliberately small subset of HTTP over raw TCP connections:
// exactly one request per connection, GET only, Connection: close on every
// response. Routes:
//
//	GET /               static browser page
//	GET /index.html     static browser page
//	GET /api/files      JSON listing of shared files
//	GET /download/{id}  file content as an attachment
//
// When credentials are configured every request must carry a matching
// Basic Authorization header; otherwise 401 is returned with a
// WWW-Authenticate challenge.
//
// FileServer bundles a CredentialStore, a FileRegistry and an Acceptor and is
// the entry point for host applications.
package server
