// Package logging builds the slog loggers used by the archiver and its CLI.
//
// Two formats are supported: a human-oriented console format (timestamp,
// level, optional component prefix, message, key=value attributes) and JSON.
// Loggers are always constructed explicitly and handed to the components that
// need them; nothing in this package installs a process-wide default.
package logging
