package config

import "context"

// Loader is the interface for a format-specific study document loader. It
// reads one document from a file path and translates it into the
// format-agnostic model.
type Loader interface {
	Load(ctx context.Context, path string) (*Study, error)
}
