// Package app wires the study pipeline together: document discovery, loader
// selection by file extension, validation, expansion into the trial plan,
// and, when a per-trial command is configured, concurrent execution of that
// plan with result recording.
package app
