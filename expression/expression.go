package expression

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/KYVENetwork/dlt-sink/jsonvalue"
	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-json"
)

var ErrNoValue = errors.New("expression yielded no value")

// documentVar holds the parsed view of the payload. Member access on payload reads from it.
const documentVar = "$document"

// Expression is a compiled expression evaluated against a record environment.
type Expression interface {
	Source() string
	Evaluate(env Env) (any, error)
}

// Env is the evaluation environment of one record. Build it once per record.
// payload is the record payload as received; payload.x and payload[i] address its JSON view.
type Env struct {
	vars map[string]any
}

func NewEnv(record schema.Record) Env {
	return Env{vars: map[string]any{
		"payload":   record.Payload,
		documentVar: jsonvalue.View(record.Payload),
		"headers":   record.Headers,
		"id":        record.ID,
	}}
}

// documentAccess rewrites member access on payload to read from the parsed document.
type documentAccess struct{}

func (documentAccess) Visit(node *ast.Node) {
	member, ok := (*node).(*ast.MemberNode)
	if !ok {
		return
	}
	if ident, ok := member.Node.(*ast.IdentifierNode); ok && ident.Value == "payload" {
		member.Node = &ast.IdentifierNode{Value: documentVar}
	}
}

type program struct {
	source  string
	program *vm.Program
}

func Compile(source string) (Expression, error) {
	p, err := expr.Compile(source, expr.Function("str", str), expr.Patch(documentAccess{}))
	if err != nil {
		return nil, fmt.Errorf("failed to compile expression %q: %w", source, err)
	}
	return &program{source: source, program: p}, nil
}

func (p *program) Source() string {
	return p.source
}

func (p *program) Evaluate(env Env) (any, error) {
	out, err := expr.Run(p.program, env.vars)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate %q: %w", p.source, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoValue, p.source)
	}
	return out, nil
}

// str renders a value as text. Maps and slices are encoded as JSON.
func str(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("str expects 1 argument, got %d", len(params))
	}
	switch v := params[0].(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case json.RawMessage:
		return string(v), nil
	case jsonvalue.Value:
		if v.Kind() == jsonvalue.String {
			return v.Native(), nil
		}
		if v.Kind() == jsonvalue.Null {
			return nil, nil
		}
		return v.String(), nil
	case fmt.Stringer:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case map[string]any, []any:
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode value: %w", err)
		}
		return string(out), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}
