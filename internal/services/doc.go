// Package services provides [APIService], an HTTP client for a running monty server.
//
// # Requests
//
// [APIService.Get], [APIService.Post], [APIService.Put] and [APIService.Delete] return the raw
// [APIResponse] for any status code; only transport failures are errors. [APIResponse.Err]
// turns a 4xx or 5xx response into an error carrying the server's detail message.
//
// # Paths
//
// [ResourcePath] builds resource routes such as /albums/v1/name/{name}, escaping the key
// so that a literal % wildcard reaches the server as %25.
//
// # Error Handling
//
//   - [shared.ErrAPIRequest] : the server answered with an error status
//   - [shared.ErrServiceUnavailable] : the health check reported a degraded database
package services
