package sqlstore

import (
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect captures what differs between the supported SQL engines.
type Dialect interface {
	Name() string
	// BindType is the sqlx placeholder style.
	BindType() int
	// Schema returns idempotent DDL for every table.
	Schema() []string
	SupportsReturning() bool
	SupportsLastInsertID() bool
	IsUniqueViolation(err error) bool
}

// Postgres is the pooled production dialect.
type Postgres struct{}

func (Postgres) Name() string               { return "postgres" }
func (Postgres) BindType() int              { return sqlx.DOLLAR }
func (Postgres) SupportsReturning() bool    { return true }
func (Postgres) SupportsLastInsertID() bool { return false }

func (Postgres) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(255) NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			senha VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS alunos (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(255) NOT NULL,
			data_nascimento DATE NOT NULL,
			serie_turma VARCHAR(100) NOT NULL,
			email VARCHAR(255),
			telefone VARCHAR(20),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS professores (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(255) NOT NULL,
			disciplina VARCHAR(100) NOT NULL,
			email VARCHAR(255),
			telefone VARCHAR(20),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	}
}

// IsUniqueViolation matches SQLSTATE 23505.
func (Postgres) IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// SQLite is the single-file local dialect.
type SQLite struct{}

func (SQLite) Name() string               { return "sqlite" }
func (SQLite) BindType() int              { return sqlx.QUESTION }
func (SQLite) SupportsReturning() bool    { return false }
func (SQLite) SupportsLastInsertID() bool { return true }

func (SQLite) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			senha TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS alunos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome TEXT NOT NULL,
			data_nascimento DATE NOT NULL,
			serie_turma TEXT NOT NULL,
			email TEXT,
			telefone TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS professores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome TEXT NOT NULL,
			disciplina TEXT NOT NULL,
			email TEXT,
			telefone TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
}

// IsUniqueViolation matches SQLITE_CONSTRAINT failures raised by a UNIQUE index.
func (SQLite) IsUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
}
