// Package client talks to a running lanshare file server over HTTP.
//
//	c, err := client.New(&client.Config{
//	    Endpoint: "http://192.168.1.20:8080",
//	    Username: "admin",
//	    Password: "secret",
//	})
//	files, err := c.List(ctx)
//	res, _, err := c.Download(ctx, client.DownloadOptions{ID: files[0].ID})
//
// Non-2xx responses come back as *APIError; use errors.Is with ErrNotFound
// or ErrUnauthorized to tell them apart.
package client
