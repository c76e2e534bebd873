// Package control exposes a small JSON API for driving a running file server
// from other processes on the same host.
//
// The API is meant to listen on loopback. When a bcrypt token hash is
// configured every request must carry "Authorization: Bearer <token>".
//
// # Routes
//
//	GET    /status          listener state, port and share count
//	PUT    /credentials     set or clear the Basic credentials
//	GET    /files           list shared files
//	POST   /files           share a path
//	DELETE /files           unshare everything
//	DELETE /files/{id}      unshare one file
//	POST   /server/start    start listening, optionally on {"port": n}
//	POST   /server/stop     stop listening
//
// # Usage
//
//	h := control.NewHandler(control.HandlerConfig{
//	    TokenHash: cfg.Control.TokenHash,
//	    Sharer:    catalog,
//	}, fileServer)
//	http.ListenAndServe("127.0.0.1:8081", h.Router())
package control
