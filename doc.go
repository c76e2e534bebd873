// Package lanshare provides the state behind a small LAN file-sharing server:
// an optional single-user Basic credential and a registry of shared files.
//
// A host application registers files by filesystem path or by an already
// open handle, sets credentials, and starts the HTTP server from the server
// package. Browsers on the same network then list and download the shared
// files.
//
// # Key Components
//
//   - CredentialStore: username/password pair and Basic header validation
//   - FileRegistry: id to SharedFile map, safe for concurrent use
//   - ContentTypeFor: fixed extension to MIME type table
//   - CatalogRepo: persistence interface for path-backed shares (sqlite, postgres)
//   - LoadManifest: YAML share manifest
//
// # Example Usage
//
//	registry := lanshare.NewFileRegistry()
//	defer registry.Clear()
//
//	if err := registry.AddByPath("a1", "notes.txt", "/tmp/notes.txt", 1024); err != nil {
//	    log.Fatal(err)
//	}
//
//	rd, err := registry.ResolveForRead("a1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rd.Close()
//
// See the server package for the HTTP front end and the database packages for
// catalog backends.
package lanshare
