// Package server provides HTTP routing, middleware and the resource handlers of the media store API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /albums/v1/id/{id}").
// [Middleware] wraps the whole mux; the first middleware added sees the request first.
//
// # Resources
//
// A [Resource] serves one table under /{resource}/v1:
//
//	GET    /            every row, 404 when the table is empty
//	GET    /id/{id}     one row by Id, 422 when id is not an integer
//	GET    /name/{name} rows whose name column matches, % acts as a wildcard
//	POST   /name/{name} insert the body, 409 when an identical row or unique key exists
//	PUT    /id/{id}     update the row, 404 when missing
//	PUT    /name/{name} update the first matching row
//	DELETE /id/{id}     delete the row and echo it with 202
//	DELETE /name/{name} delete every matching row and echo them
//
// Albums add /artist/{id}; customers and employees add /search with query parameters.
// Every check-then-write runs inside one transaction of the data layer.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [Resource] dispatches on [http.Request.Pattern] to the function registered for each route.
//
// # Errors
//
// Error responses are JSON objects with a "detail" message; validation failures add an "errors" list.
package server
