package models

import "time"

// User represents an account stored in the usuarios table.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"nome" json:"nome"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"senha" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserInput carries the writable fields of a user. An empty Password on update
// keeps the stored one.
type UserInput struct {
	Name     string
	Email    string
	Password string
}
