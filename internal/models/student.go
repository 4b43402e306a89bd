package models

import "time"

// Student represents a learner registered in the school (alunos table).
type Student struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"nome" json:"nome"`
	BirthDate Date      `db:"data_nascimento" json:"data_nascimento"`
	Grade     string    `db:"serie_turma" json:"serie_turma"`
	Email     *string   `db:"email" json:"email"`
	Phone     *string   `db:"telefone" json:"telefone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentInput carries the writable fields of a student.
type StudentInput struct {
	Name      string
	BirthDate Date
	Grade     string
	Email     *string
	Phone     *string
}
