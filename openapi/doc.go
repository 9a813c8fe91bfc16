// Package openapi implements the dispatch runtime for the remote
// diagnostic platform's OpenAPI surface: a route registry mapping
// operation names to invocation metadata, two interchangeable transport
// backends, and the factory that picks a backend and resolves credentials.
//
// An operation may be reachable over one or both transports:
//
//   - the framework transport resolves a peer instance through service
//     discovery and performs a plain HTTP call inside the cluster;
//   - the cloud transport performs a signed call against the public
//     OpenAPI endpoint through the Alibaba Cloud SDK stack.
//
// Routes are registered lazily by whichever caller first needs them and
// live for the process lifetime. Registering the second transport binding
// for an existing route widens its support mode to [ModeBoth]; support is
// never narrowed.
package openapi
