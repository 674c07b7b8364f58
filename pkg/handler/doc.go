// Package handler exposes a hashtag service over a small JSON API built on chi.
//
// Routes:
//
//	GET  /tags/trending?limit=   most used hashtags
//	GET  /tags/search?q=&limit=  hashtags whose name contains q
//	GET  /tags/{name}?type=      one hashtag and the IDs of its owners of type
//	POST /tagify                 {"text", "with_links"} to {"html", "hashtags", "mentions"}
//	GET  /healthz, /readyz       liveness and readiness
//
// Errors are JSON objects with "message", "code" and "request_id".
//
//	h := handler.New(svc,
//	    handler.WithLogger(log),
//	    handler.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//	)
//	http.ListenAndServe(":8080", h.Router())
package handler
