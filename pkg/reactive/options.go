package reactive

// Option configures a State, Computed or Watcher at construction.
type Option func(*nodeOptions)

type nodeOptions struct {
	name string
}

// Name labels the node in logs, errors, probes and snapshots.
//
// Example:
//
//	count := reactive.NewState(rt, 0, reactive.Name("count"))
func Name(name string) Option {
	return func(o *nodeOptions) {
		o.name = name
	}
}

func applyOptions(opts []Option) nodeOptions {
	var o nodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
