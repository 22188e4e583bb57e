package blend

// ContextOption configures a Context during creation.
//
// Example:
//
//	// Draw on the calling goroutine
//	ctx, err := blend.NewContext(img)
//
//	// Composite on four workers
//	ctx, err := blend.NewContext(img, blend.WithThreadCount(4))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	threads int
	compOp  CompOp
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{
		threads: 0, // draw synchronously on the caller's goroutine
		compOp:  CompOpSrcOver,
	}
}

// WithThreadCount sets the number of compositing workers. Zero, the
// default, composites on the calling goroutine. Output does not depend on
// the count.
func WithThreadCount(n int) ContextOption {
	return func(o *contextOptions) {
		o.threads = n
	}
}

// WithCompOp sets the initial composition operator. The operator is part
// of the saved state, so Restore can return to it.
func WithCompOp(op CompOp) ContextOption {
	return func(o *contextOptions) {
		o.compOp = op
	}
}
