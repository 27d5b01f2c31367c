// Package sources provides the fetch capability used by catalog traversal:
// reading catalog documents and probing assets on the local filesystem and
// over HTTP.
//
// Architecture:
//   - Connector: the capability consumed by traversal and driver resolution
//     (FileExists, HeadRequest, GetBytes)
//   - LocationHandler: fetches and HEADs one kind of location
//   - LocationHandlerFactory: creates handlers by location type
//
// Current implementations:
//   - fileLocationHandler: local paths and file:// URLs
//   - httpLocationHandler: http:// and https:// URLs, backed by httpclient
//
// HEAD requests can be throttled with a token bucket shared by every query that
// uses the same Connector.
package sources
