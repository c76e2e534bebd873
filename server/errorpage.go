package server

const (
	unauthorizedHTML     = `<html><body><h1>401 Unauthorized</h1><p>Authentication required.</p></body></html>`
	notFoundHTML         = `<html><body><h1>404 Not Found</h1></body></html>`
	methodNotAllowedHTML = `<html><body><h1>405 Method Not Allowed</h1></body></html>`
)
