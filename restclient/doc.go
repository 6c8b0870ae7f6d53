// Package restclient is a synchronous HTTP client engine. A Client issues
// one request at a time over a pluggable Transport: response bodies
// accumulate in memory or stream to a caller-owned sink, response headers
// are parsed line by line into a case-sensitive map, uploads are fed from a
// single-pass byte cursor, and an optional progress reporter can observe or
// abort the transfer.
//
// Every verb returns a *Response; there is no separate error channel.
// Transport-level failures (DNS, connect, TLS, aborted transfers) are
// reported with Status == StatusTransportFailure and a fixed marker body,
// while HTTP-level failures (4xx/5xx) are just status codes the engine does
// not interpret.
package restclient
