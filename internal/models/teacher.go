package models

import "time"

// Teacher represents an instructor record (professores table).
type Teacher struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"nome" json:"nome"`
	Subject   string    `db:"disciplina" json:"disciplina"`
	Email     *string   `db:"email" json:"email"`
	Phone     *string   `db:"telefone" json:"telefone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherInput carries the writable fields of a teacher.
type TeacherInput struct {
	Name    string
	Subject string
	Email   *string
	Phone   *string
}
