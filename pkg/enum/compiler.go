// Package enum turns a single declaration into an enumerated attribute on a
// model.Model.
//
//	status, err := enum.Declare(post, "status", model.Symbols("draft", "published"))
//
// registers the STATUS constant, the "_status" field with its inclusion rule,
// one scope per value and the members draft?, draft!, published?,
// published!, status and status=. Every generated member and scope reports
// to a trace.Tracer before it runs.
package enum

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/loamenum/pkg/model"
	"github.com/aretw0/loamenum/pkg/trace"
)

// Compiler declares enums on models. It holds no per-model state and is safe
// for concurrent use.
type Compiler struct {
	config Configuration
	tracer trace.Tracer
	logger *slog.Logger
}

// NewCompiler creates a Compiler. Without WithTracer every member call is
// logged by a trace.CallSiteTracer on the configured logger.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{config: DefaultConfiguration()}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = trace.New(c.logger)
	}
	return c
}

// Configuration returns the compiler settings.
func (c *Compiler) Configuration() Configuration { return c.config }

// Declare declares an enum with a default Compiler.
func Declare(m *model.Model, name string, values []model.Symbol, opts ...Option) (*Enum, error) {
	return NewCompiler().Declare(m, name, values, opts...)
}

// Declare registers the constant, field, validation, scopes and members of
// an enumerated attribute. Names are checked for collisions before anything
// is registered, so a failed declaration leaves the model untouched.
func (c *Compiler) Declare(m *model.Model, name string, values []model.Symbol, opts ...Option) (*Enum, error) {
	if err := checkDeclaration(m, name, values); err != nil {
		return nil, err
	}
	o := resolveOptions(values, opts)

	e := &Enum{
		model:    m,
		name:     name,
		field:    c.config.FieldNamePrefix + name,
		constant: strings.ToUpper(name),
		values:   append([]model.Symbol{}, values...),
		options:  o,
		tracer:   c.tracer,
	}
	if err := e.checkDefault(); err != nil {
		return nil, err
	}
	if m.Frozen() {
		return nil, fmt.Errorf("declare enum %s#%s: %w", m.Name(), name, model.ErrFrozen)
	}
	if err := e.checkCollisions(); err != nil {
		return nil, err
	}

	steps := []func() error{
		e.register,
		e.provision,
		e.constrain,
		e.declareScopes,
		e.synthesize,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("declare enum %s#%s: %w", m.Name(), name, err)
		}
	}

	c.logger.Debug("enum declared",
		"model", m.Name(),
		"attribute", name,
		"field", e.field,
		"values", len(values),
		"multiple", o.Multiple,
	)
	return e, nil
}

func checkDeclaration(m *model.Model, name string, values []model.Symbol) error {
	modelName := ""
	if m != nil {
		modelName = m.Name()
	}
	fail := func(reason string) error {
		return &model.ConfigurationError{Model: modelName, Attribute: name, Reason: reason}
	}
	switch {
	case m == nil:
		return fail("model is nil")
	case name == "":
		return fail("attribute name is empty")
	case len(values) == 0:
		return fail("allowed values are empty")
	}
	seen := make(map[model.Symbol]bool, len(values))
	for _, v := range values {
		if v == "" {
			return fail("allowed values contain an empty value")
		}
		if seen[v] {
			return fail(fmt.Sprintf("allowed value %q is repeated", v))
		}
		seen[v] = true
	}
	return nil
}
