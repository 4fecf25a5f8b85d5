package enum

import (
	"log/slog"

	"github.com/aretw0/loamenum/pkg/model"
	"github.com/aretw0/loamenum/pkg/trace"
)

// Options configures one declaration. The zero value is never used directly:
// defaults are multiple=false, default=first value, required=true, validate=true.
type Options struct {
	Multiple bool
	Default  any // model.Symbol, []model.Symbol or nil
	Required bool
	Validate bool

	defaultSet bool
}

// Option overrides one declaration option.
type Option func(*Options)

// Multiple stores a sequence of values instead of a single one.
func Multiple(enabled bool) Option {
	return func(o *Options) {
		o.Multiple = enabled
	}
}

// Default overrides the default value. Default(nil) declares no default.
func Default(v any) Option {
	return func(o *Options) {
		o.Default = v
		o.defaultSet = true
	}
}

// Required controls whether an absent value fails validation.
func Required(required bool) Option {
	return func(o *Options) {
		o.Required = required
	}
}

// Validate controls whether an inclusion rule is registered at all.
func Validate(validate bool) Option {
	return func(o *Options) {
		o.Validate = validate
	}
}

func resolveOptions(values []model.Symbol, opts []Option) Options {
	o := Options{Required: true, Validate: true}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.defaultSet {
		o.Default = values[0]
	}
	o.Default = normalizeDefault(o.Default, o.Multiple)
	return o
}

func normalizeDefault(v any, multiple bool) any {
	if v == nil {
		return nil
	}
	if multiple {
		return model.ToSymbols(v)
	}
	return model.ToSymbol(v)
}

// Configuration holds compiler-wide settings.
type Configuration struct {
	// FieldNamePrefix is prepended to the attribute name to form the stored field name.
	FieldNamePrefix string
}

// DefaultConfiguration returns the settings used by Declare.
func DefaultConfiguration() Configuration {
	return Configuration{FieldNamePrefix: "_"}
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithTracer replaces the default call-site tracer.
func WithTracer(t trace.Tracer) CompilerOption {
	return func(c *Compiler) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithConfiguration replaces DefaultConfiguration.
func WithConfiguration(cfg Configuration) CompilerOption {
	return func(c *Compiler) {
		c.config = cfg
	}
}

// WithFieldPrefix overrides Configuration.FieldNamePrefix.
func WithFieldPrefix(prefix string) CompilerOption {
	return func(c *Compiler) {
		c.config.FieldNamePrefix = prefix
	}
}

// WithLogger sets the logger used for declaration records and the default tracer.
func WithLogger(logger *slog.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logger
	}
}
