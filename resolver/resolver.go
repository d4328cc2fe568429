package resolver

import (
	"github.com/KYVENetwork/dlt-sink/expression"
	"github.com/KYVENetwork/dlt-sink/jsonvalue"
	"github.com/KYVENetwork/dlt-sink/schema"
)

// ParameterSet is an ordered set of named statement parameters.
type ParameterSet struct {
	names  []string
	values map[string]any
}

func (p ParameterSet) Names() []string {
	return p.names
}

func (p ParameterSet) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Map returns the parameters keyed by name, suitable for named binding.
func (p ParameterSet) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

func (p ParameterSet) Len() int {
	return len(p.names)
}

type Resolver struct {
	mappings []ColumnMapping
}

func New(mappings []ColumnMapping) *Resolver {
	return &Resolver{mappings: mappings}
}

func (r *Resolver) Columns() []string {
	return Names(r.mappings)
}

// Resolve computes one value per mapping. The first expression that evaluates supplies the value;
// when every expression fails the value is nil.
func (r *Resolver) Resolve(record schema.Record) ParameterSet {
	env := expression.NewEnv(record)
	params := ParameterSet{
		names:  make([]string, 0, len(r.mappings)),
		values: make(map[string]any, len(r.mappings)),
	}

	for _, mapping := range r.mappings {
		var (
			value   any
			lastErr error
		)
		for _, e := range mapping.Expressions {
			out, err := e.Evaluate(env)
			if err != nil {
				lastErr = err
				continue
			}
			value, lastErr = unwrap(out), nil
			break
		}
		if lastErr != nil {
			logger.Info().
				Str("record", record.ID).
				Str("column", mapping.Name).
				Str("err", lastErr.Error()).
				Msg("could not resolve column value")
		}
		params.names = append(params.names, mapping.Name)
		params.values[mapping.Name] = value
	}
	return params
}

func unwrap(v any) any {
	if value, ok := v.(jsonvalue.Value); ok {
		return value.Native()
	}
	return v
}
