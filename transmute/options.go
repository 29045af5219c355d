package transmute

import (
	"github.com/rs/zerolog"

	"transmuter/accessor"
	"transmuter/construct"
)

type planConfig struct {
	accessor    accessor.Accessor
	constructor construct.Constructor
	logger      zerolog.Logger
}

func newPlanConfig(opts []PlanOption) planConfig {
	cfg := planConfig{
		accessor:    accessor.Attribute{},
		constructor: construct.Dict(),
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// PlanOption configures plan compilation.
type PlanOption func(*planConfig)

// WithAccessor sets how source fields are read. Default is accessor.Attribute.
func WithAccessor(a accessor.Accessor) PlanOption {
	return func(c *planConfig) {
		if a != nil {
			c.accessor = a
		}
	}
}

// WithConstructor sets how target records are built. Default is construct.Dict.
func WithConstructor(ctor construct.Constructor) PlanOption {
	return func(c *planConfig) {
		if ctor != nil {
			c.constructor = ctor
		}
	}
}

// WithPlanLogger sets the logger used while compiling.
func WithPlanLogger(l zerolog.Logger) PlanOption {
	return func(c *planConfig) {
		c.logger = l
	}
}

// DictionaryVariant configures plans for key/value records: sources are read
// with accessor.Key and targets built with construct.Dict.
func DictionaryVariant() PlanOption {
	return func(c *planConfig) {
		c.accessor = accessor.Key{}
		c.constructor = construct.Dict()
	}
}

type instanceConfig struct {
	context     any
	hasContext  bool
	parallelism int
	logger      zerolog.Logger
}

func newInstanceConfig(opts []Option) instanceConfig {
	cfg := instanceConfig{
		parallelism: 1,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Option configures a Mapper or an Aggregator.
type Option func(*instanceConfig)

// WithContext sets the initial context of the transformer instance.
func WithContext(ctx any) Option {
	return func(c *instanceConfig) {
		c.context = ctx
		c.hasContext = true
	}
}

// WithParallelism evaluates up to n groups concurrently during aggregation.
// Values below 2 keep the evaluation sequential.
func WithParallelism(n int) Option {
	return func(c *instanceConfig) {
		c.parallelism = max(n, 1)
	}
}

// WithLogger sets the logger used at run time.
func WithLogger(l zerolog.Logger) Option {
	return func(c *instanceConfig) {
		c.logger = l
	}
}
