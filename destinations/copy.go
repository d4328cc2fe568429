package destinations

import (
	"context"
	"fmt"
	"io"

	"github.com/KYVENetwork/dlt-sink/schema"
	"github.com/KYVENetwork/dlt-sink/statement"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CopyConn is an exclusive connection able to run COPY FROM STDIN.
type CopyConn interface {
	CopyFrom(ctx context.Context, r io.Reader, sql string) (int64, error)
	Release()
}

type ConnPool interface {
	Acquire(ctx context.Context) (CopyConn, error)
}

type PgxPool struct {
	pool *pgxpool.Pool
}

func NewPgxPool(pool *pgxpool.Pool) *PgxPool {
	return &PgxPool{pool: pool}
}

func (p *PgxPool) Acquire(ctx context.Context) (CopyConn, error) {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxConn{conn: conn}, nil
}

type pgxConn struct {
	conn *pgxpool.Conn
}

func (c *pgxConn) CopyFrom(ctx context.Context, r io.Reader, sql string) (int64, error) {
	tag, err := c.conn.Conn().PgConn().CopyFrom(ctx, r, sql)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *pgxConn) Release() {
	c.conn.Release()
}

// Copy streams a batch of records through COPY FROM STDIN, one line per record.
type Copy struct {
	pool      ConnPool
	statement string
}

func NewCopy(pool ConnPool, tableName string, columns []string, options schema.FormatOptions) *Copy {
	return &Copy{
		pool:      pool,
		statement: statement.Copy(tableName, columns, options),
	}
}

func (c *Copy) Statement() string {
	return c.statement
}

func (c *Copy) Load(ctx context.Context, members []schema.Record) (int64, error) {
	lines := make([]string, 0, len(members))
	for _, member := range members {
		line, err := member.Line()
		if err != nil {
			return 0, fmt.Errorf("failed to render record %s: %w", member.ID, err)
		}
		lines = append(lines, line)
	}

	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.CopyFrom(ctx, newLineReader(lines), c.statement)
	if err != nil {
		return 0, fmt.Errorf("failed to copy %d records: %w", len(members), err)
	}
	return rows, nil
}

// lineReader yields each line followed by a newline without joining them up front.
type lineReader struct {
	lines   []string
	current string
	pending bool
}

func newLineReader(lines []string) *lineReader {
	return &lineReader{lines: lines}
}

func (r *lineReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if !r.pending {
			if len(r.lines) == 0 {
				break
			}
			r.current = r.lines[0] + "\n"
			r.lines = r.lines[1:]
			r.pending = true
		}
		copied := copy(p[n:], r.current)
		n += copied
		r.current = r.current[copied:]
		if r.current == "" {
			r.pending = false
		}
	}
	if n == 0 && len(r.lines) == 0 && !r.pending {
		return 0, io.EOF
	}
	return n, nil
}
