package config

import "context"

// Loader reads sheets from files or directories and merges them into one
// Sheet. Duplicate attribute names across sources are an error.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Sheet, error)
}
