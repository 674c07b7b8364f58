// Package logger builds the slog loggers used across the hashtag packages.
//
//	log := logger.New(os.Stdout, logger.Config{Level: "debug"},
//	    logger.RequestIDExtractor(),
//	    logger.OwnerExtractor(),
//	)
//
// Output is JSON unless Config.Format is "text". With Config.SentryDSN set,
// warnings and errors are also sent to Sentry through sentry-go's slog
// handler; errors open issues.
//
// Extractors add request-scoped attributes at log time. RequestIDExtractor
// reads the ID set by chi's RequestID middleware, and OwnerExtractor reads the
// owner stored with WithOwner by background sync jobs.
//
// NewNope returns a logger that discards output; packages use it when no
// logger is configured.
package logger
