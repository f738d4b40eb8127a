// Package albumapi provides an HTTP client for the album catalog API.
//
// # Overview
//
// The catalog is a small read-only REST service. sleeve uses two of its
// endpoints, both relative to a base URL that ends in /api/:
//
//   - GET albums: JSON array of album records
//   - GET albums/{id}: a single JSON album record
//
// The client owns no state. Every call is one fresh round trip with no
// caching and no retries. The caller decides what to do with a failure.
//
// # Client Usage
//
// The *http.Client is injected. The app layer builds one shared instance
// at startup and closes its idle connections on exit:
//
//	httpClient := &http.Client{Timeout: cfg.Timeout}
//	defer httpClient.CloseIdleConnections()
//
//	client, err := albumapi.NewClient(cfg.APIBase, httpClient)
//	if err != nil {
//		return fmt.Errorf("init album client: %w", err)
//	}
//
//	albums, err := client.FetchAllAlbums(ctx)
//
// # Record Decoding
//
// Album records carry title, artist, description and image as strings. The
// identifier is stored under "id" by newer servers and "_id" by older ones.
// Decoding reads "id" first and falls back to "_id" when "id" is absent or
// null. A numeric identifier is kept as its decimal text. A record with no
// identifier at all is a decode error.
//
// # Error Handling
//
// Every remote failure is returned as a *FetchError naming the operation and
// URL. Its cause is one of:
//
//   - *TransportError: the request never completed (refused, DNS, timeout, cancelled)
//   - *HTTPStatusError: the server answered with a non-2xx status
//   - *DecodeError: the body did not match the expected shape
//
// Use errors.As to inspect the cause, or Classify for a coarse ErrorKind
// suitable for log fields.
//
// FetchAlbumByID returns ErrEmptyID for a blank id and ErrInvalidID for "."
// or "..", both without making a request.
// That is a programming error on the caller side, not a remote failure.
//
// # Request Headers
//
// All requests send Accept: application/json and a sleeve User-Agent. When
// the context carries a request id (see WithRequestID) it is sent as
// X-Request-ID so server logs can be matched to a screen activation.
//
// # Thread Safety
//
// The Client is safe for concurrent use. Connection pooling is left to the
// injected http.Client.
package albumapi
