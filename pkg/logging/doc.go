// Package logging builds the zap loggers used by the server, the CLI and the
// remote client, and carries request-scoped loggers through a context.
package logging
