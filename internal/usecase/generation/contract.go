package generation

import "context"

// Completer sends a single chat completion and returns the raw assistant text.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error)
}

// HostResolver checks DNS reachability of the generation API host.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}
