// Package querysql compiles queryir queries to parameterized SQLite SQL
// against the store schema.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/herald/internal/ir"
	"github.com/roach88/herald/internal/queryir"
)

// TranscriptColumns is the column list every compiled transcript query
// selects, in the order store scans them.
const TranscriptColumns = `t.id, t.pass_token, t.idx, t.effect_id, t.object_phid, t.action, t.target,
	t.rule_id, t.rule_name, t.rule_author, t.rule_scope, t.reason, t.applied, t.message`

// orderBy keeps results in pass sequence, then effect order. Every
// compiled query ends with it.
const orderBy = ` ORDER BY p.seq ASC, t.idx ASC`

// SQLCompiler compiles queryir queries to SQL. Values are always bound as
// ? parameters, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile validates q and converts it to (sql, params).
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if err := queryir.Validate(q); err != nil {
		return "", nil, fmt.Errorf("invalid query: %w", err)
	}

	switch query := q.(type) {
	case queryir.Transcripts:
		return c.compileTranscripts(query)
	case *queryir.Transcripts:
		return c.compileTranscripts(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileTranscripts(q queryir.Transcripts) (string, []any, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + TranscriptColumns + ` FROM transcripts t JOIN passes p ON p.token = t.pass_token`)

	var params []any
	if q.Filter != nil {
		where, filterParams, err := c.compilePredicate(q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		b.WriteString(" WHERE " + where)
		params = filterParams
	}

	b.WriteString(orderBy)
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, q.Limit)
	}
	return b.String(), params, nil
}

func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case queryir.Equals:
		return c.compileEquals(pred)
	case *queryir.Equals:
		return c.compileEquals(*pred)
	case queryir.In:
		return c.compileIn(pred)
	case *queryir.In:
		return c.compileIn(*pred)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileEquals(eq queryir.Equals) (string, []any, error) {
	param, err := irValueToParam(eq.Value)
	if err != nil {
		return "", nil, fmt.Errorf("field %s: %w", eq.Field, err)
	}
	return column(eq.Field) + " = ?", []any{param}, nil
}

func (c *SQLCompiler) compileIn(in queryir.In) (string, []any, error) {
	if len(in.Values) == 0 {
		return "1 = 0", nil, nil
	}

	params := make([]any, 0, len(in.Values))
	for _, v := range in.Values {
		param, err := irValueToParam(v)
		if err != nil {
			return "", nil, fmt.Errorf("field %s: %w", in.Field, err)
		}
		params = append(params, param)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(params)), ", ")
	return fmt.Sprintf("%s IN (%s)", column(in.Field), placeholders), params, nil
}

func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, pred := range and.Predicates {
		sql, predParams, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		params = append(params, predParams...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// column maps a field to its transcripts column. Field names are checked
// by Validate before they reach here.
func column(f queryir.Field) string {
	return "t." + string(f)
}

// irValueToParam converts a scalar ir.IRValue to a driver parameter.
// Booleans become 0/1 to match the applied column.
func irValueToParam(v ir.IRValue) (any, error) {
	switch val := v.(type) {
	case ir.IRString:
		return string(val), nil
	case ir.IRInt:
		return int64(val), nil
	case ir.IRBool:
		if val {
			return 1, nil
		}
		return 0, nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
