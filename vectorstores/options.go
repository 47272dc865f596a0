package vectorstores

// Option applies configuration to Options.
type Option func(*Options)

// Options collects optional parameters for vector store queries.
type Options struct {
	// NameSpace overrides the store's collection.
	NameSpace string
	// Offset skips the first N results in ranked order.
	Offset int
	// MinScore drops matches scoring below it.
	MinScore float32
	// Source restricts matches to chunks of one document.
	Source string
}

// NewOptions applies opts over zero Options.
func NewOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	return options
}

// Accept reports whether a record from source passes the Source filter.
func (o *Options) Accept(source string) bool {
	if o == nil || o.Source == "" {
		return true
	}
	return o.Source == source
}

// WithNameSpace sets the logical namespace to operate on.
func WithNameSpace(ns string) Option {
	return func(o *Options) { o.NameSpace = ns }
}

// WithOffset skips the first N results in ranked order.
func WithOffset(offset int) Option {
	return func(o *Options) {
		if offset > 0 {
			o.Offset = offset
		}
	}
}

// WithMinScore drops matches whose similarity is below score.
func WithMinScore(score float32) Option {
	return func(o *Options) { o.MinScore = score }
}

// WithSource restricts results to chunks of the given document.
func WithSource(source string) Option {
	return func(o *Options) { o.Source = source }
}
