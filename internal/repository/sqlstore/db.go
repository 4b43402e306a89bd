package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/repository"
)

// Statement kinds reported to observers.
const (
	OpSelect = "select"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	OpDDL    = "ddl"
	OpOther  = "other"
)

var returningClause = regexp.MustCompile(`(?i)\bRETURNING\b`)

// Result is the normalized outcome of a statement. RowCount holds affected rows for
// mutations and rows read otherwise.
type Result struct {
	RowCount     int64
	LastInsertID int64
}

// Observer receives the timing of every statement.
type Observer interface {
	ObserveQuery(dialect, operation string, duration time.Duration, err error)
}

// DB executes statements written with ? placeholders against one dialect.
type DB struct {
	db       *sqlx.DB
	dialect  Dialect
	logger   *zap.Logger
	observer Observer
	clock    *repository.Clock
}

// Option customises a DB.
type Option func(*DB)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *DB) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver attaches a statement observer.
func WithObserver(observer Observer) Option {
	return func(d *DB) { d.observer = observer }
}

// New wraps an open handle.
func New(db *sqlx.DB, dialect Dialect, opts ...Option) *DB {
	d := &DB{
		db:      db,
		dialect: dialect,
		logger:  zap.NewNop(),
		clock:   repository.NewClock(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dialect returns the active dialect.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Ping verifies the connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close releases the underlying pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// Query runs query after rebinding its placeholders for the active dialect.
//
// Mutations (INSERT, UPDATE, DELETE and DDL) without a RETURNING clause are executed
// and dest is ignored; the result carries affected rows and, where supported, the
// last insert id. Any other statement fills dest: a pointer to a slice receives every
// row, any other pointer receives the first row. A missing single row is not an
// error; it yields RowCount 0.
func (d *DB) Query(ctx context.Context, dest interface{}, query string, args ...interface{}) (Result, error) {
	op := statementKind(query)
	bound := sqlx.Rebind(d.dialect.BindType(), query)

	start := time.Now()
	var (
		res Result
		err error
	)
	if isMutation(op, query) {
		res, err = d.exec(ctx, op, bound, args)
	} else {
		res, err = d.read(ctx, dest, bound, args)
	}
	if d.observer != nil {
		d.observer.ObserveQuery(d.dialect.Name(), op, time.Since(start), err)
	}
	if err != nil {
		return Result{}, fmt.Errorf("%s statement: %w", op, err)
	}
	return res, nil
}

// Insert runs an INSERT. When the dialect supports RETURNING, columns are appended to
// the statement, dest receives the stored row and filled is true. Otherwise the
// caller re-assembles the row from Result.LastInsertID.
func (d *DB) Insert(ctx context.Context, dest interface{}, query, columns string, args ...interface{}) (res Result, filled bool, err error) {
	if d.dialect.SupportsReturning() {
		res, err = d.Query(ctx, dest, query+" RETURNING "+columns, args...)
		return res, err == nil, err
	}
	res, err = d.Query(ctx, nil, query, args...)
	return res, false, err
}

// IsUniqueViolation reports whether err came from a unique constraint of the active dialect.
func (d *DB) IsUniqueViolation(err error) bool {
	return err != nil && d.dialect.IsUniqueViolation(err)
}

func (d *DB) now() time.Time {
	return d.clock.Now()
}

func (d *DB) exec(ctx context.Context, op, query string, args []interface{}) (Result, error) {
	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Result{}, err
	}

	res := Result{RowCount: affected}
	if op == OpInsert && d.dialect.SupportsLastInsertID() {
		id, err := result.LastInsertId()
		if err != nil {
			return Result{}, err
		}
		res.LastInsertID = id
	}
	return res, nil
}

func (d *DB) read(ctx context.Context, dest interface{}, query string, args []interface{}) (Result, error) {
	value := reflect.ValueOf(dest)
	if dest == nil || value.Kind() != reflect.Ptr || value.IsNil() {
		return Result{}, errors.New("destination must be a non-nil pointer")
	}

	if value.Elem().Kind() == reflect.Slice {
		if err := d.db.SelectContext(ctx, dest, query, args...); err != nil {
			return Result{}, err
		}
		return Result{RowCount: int64(value.Elem().Len())}, nil
	}

	if err := d.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, nil
		}
		return Result{}, err
	}
	return Result{RowCount: 1}, nil
}

// likePattern wraps term in % after escaping LIKE wildcards, so matches are literal substrings.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

// statementKind classifies a statement by its leading keyword.
func statementKind(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return OpOther
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH":
		return OpSelect
	case "INSERT", "REPLACE":
		return OpInsert
	case "UPDATE":
		return OpUpdate
	case "DELETE":
		return OpDelete
	case "CREATE", "DROP", "ALTER":
		return OpDDL
	default:
		return OpOther
	}
}

func isMutation(op, query string) bool {
	switch op {
	case OpInsert, OpUpdate, OpDelete:
		return !returningClause.MatchString(query)
	case OpDDL:
		return true
	default:
		return false
	}
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.StudentRepository = (*StudentRepository)(nil)
	_ repository.TeacherRepository = (*TeacherRepository)(nil)
)
