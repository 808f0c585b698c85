package focus

import (
	"github.com/rs/zerolog"

	"github.com/focusgc/focusgc/focuslog"
	"github.com/focusgc/focusgc/mark"
)

// options holds the resolved configuration for one Focus call.
type options struct {
	parallelism         int
	fanoutWarnThreshold int
	expander            mark.Expander
	strictMissingNode   bool
	logger              zerolog.Logger
	dryRun              bool
}

func defaultOptions() options {
	return options{
		parallelism:         0, // 0 defers to gpool's GOMAXPROCS(0) default
		fanoutWarnThreshold: 10000,
		strictMissingNode:   true,
		logger:              focuslog.Nop(),
	}
}

// Option configures a Focus call. With no options, Focus(ctx, g, cache,
// roots, leaves) uses defaultOptions: strict missing-node handling, a
// fan-out warning threshold of 10000, and hardware-concurrency parallelism.
type Option func(*options)

// WithParallelism overrides the worker count for the pool Focus drives mark,
// verification, and sweep on. n <= 0 means "hardware concurrency", the
// default.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// WithFanoutWarnThreshold overrides the rdep/dep fan-out count (default
// 10000) above which a single node triggers a warning log during mark. n <=
// 0 disables the warning entirely.
func WithFanoutWarnThreshold(n int) Option {
	return func(o *options) { o.fanoutWarnThreshold = n }
}

// WithNestedArtifactExpander overrides the default nested-set-of-artifacts
// expansion (which assumes an entry's Value is a gkey.NestedArtifactSet)
// with a caller-supplied one, for evaluation engines that represent nested
// artifact sets differently.
func WithNestedArtifactExpander(fn mark.Expander) Option {
	return func(o *options) { o.expander = fn }
}

// WithStrictMissingNode controls whether a missing or not-done *leaf*
// (never an interior node discovered via rdep/dep traversal, which is
// always fatal) is a fatal error (true, the default) or a recorded entry in
// FocusResult.SkippedLeaves (false). Never silent either way.
func WithStrictMissingNode(strict bool) Option {
	return func(o *options) { o.strictMissingNode = strict }
}

// WithLogger sets the zerolog.Logger Focus emits fan-out warnings and the
// focus.mark / focus.sweep timed regions to. The default discards
// everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDryRun makes Focus run mark and verification as usual, then report
// what sweep *would* do (counts per disposition) without mutating the
// graph. FocusResult.DryRun is populated instead of RdepEdgesBefore/After.
func WithDryRun() Option {
	return func(o *options) { o.dryRun = true }
}
