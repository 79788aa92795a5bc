// Package tmdb provides a client for The Movie Database (TMDB) v3 API.
//
// The package is the only place that knows the upstream wire format. Every
// exported method returns entities from the catalog package, so callers
// never depend on raw response shapes.
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client := tmdb.NewClient(
//		os.Getenv("TMDB_API_KEY"),
//		logger,
//		tmdb.WithLanguage(catalog.English),
//		tmdb.WithTimeout(10*time.Second),
//	)
//
//	page, err := client.Search(ctx, "matrix", catalog.English, 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Every failure is a *catalog.Error with one of these kinds:
//
//   - KindMissingCredential: no API key configured, no request is made
//   - KindAuthRejected: TMDB refused the key (status codes 3, 7, 10, ... or HTTP 401/403)
//   - KindUpstream: TMDB returned an error payload, possibly inside an HTTP 200
//   - KindTransport: network, timeout or body read failure
//
// The client never retries; callers decide with catalog.IsTransient.
//
// # Images
//
// Image paths are resolved against three size tiers: posters (w500),
// backdrops (w1280) and logos (w185). A missing path maps to nil.
package tmdb
