// Package memory holds every entity in process memory. Nothing survives a restart.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/noah-isme/sistema-escolar/internal/models"
	"github.com/noah-isme/sistema-escolar/internal/repository"
)

// Store owns the in-memory tables behind one mutex.
type Store struct {
	mu    sync.RWMutex
	clock *repository.Clock

	users    []models.User
	students []models.Student
	teachers []models.Teacher

	nextUserID    int64
	nextStudentID int64
	nextTeacherID int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		clock:         repository.NewClock(),
		nextUserID:    1,
		nextStudentID: 1,
		nextTeacherID: 1,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

// Students returns the student repository view of the store.
func (s *Store) Students() *StudentRepository { return &StudentRepository{store: s} }

// Teachers returns the teacher repository view of the store.
func (s *Store) Teachers() *TeacherRepository { return &TeacherRepository{store: s} }

// Seed loads the sample dataset when the store is empty. The admin account uses
// the given input so its password can be stored through the active hasher.
func (s *Store) Seed(admin models.UserInput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.users) == 0 {
		s.insertUser(admin)
	}
	if len(s.students) == 0 {
		for _, student := range sampleStudents() {
			s.insertStudent(student)
		}
	}
	if len(s.teachers) == 0 {
		for _, teacher := range sampleTeachers() {
			s.insertTeacher(teacher)
		}
	}
}

func sampleStudents() []models.StudentInput {
	return []models.StudentInput{
		{
			Name:      "João Silva",
			BirthDate: models.NewDate(2005, 3, 15),
			Grade:     "3º Ano A",
			Email:     stringPtr("joao.silva@email.com"),
			Phone:     stringPtr("(11) 99999-0001"),
		},
		{
			Name:      "Maria Santos",
			BirthDate: models.NewDate(2004, 7, 22),
			Grade:     "3º Ano B",
			Email:     stringPtr("maria.santos@email.com"),
			Phone:     stringPtr("(11) 99999-0002"),
		},
	}
}

func sampleTeachers() []models.TeacherInput {
	return []models.TeacherInput{
		{
			Name:    "Prof. Carlos Oliveira",
			Subject: "Matemática",
			Email:   stringPtr("carlos.oliveira@escola.com"),
			Phone:   stringPtr("(11) 99999-1001"),
		},
		{
			Name:    "Profa. Ana Costa",
			Subject: "Português",
			Email:   stringPtr("ana.costa@escola.com"),
			Phone:   stringPtr("(11) 99999-1002"),
		},
	}
}

// emailTaken reports whether another user already owns email. Callers hold the lock.
func (s *Store) emailTaken(email string, exceptID int64) bool {
	for _, u := range s.users {
		if u.ID != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) insertUser(input models.UserInput) models.User {
	now := s.clock.Now()
	user := models.User{
		ID:        s.nextUserID,
		Name:      input.Name,
		Email:     strings.TrimSpace(input.Email),
		Password:  input.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextUserID++
	s.users = append(s.users, user)
	return user
}

func (s *Store) insertStudent(input models.StudentInput) models.Student {
	now := s.clock.Now()
	student := models.Student{
		ID:        s.nextStudentID,
		Name:      input.Name,
		BirthDate: input.BirthDate,
		Grade:     input.Grade,
		Email:     copyString(input.Email),
		Phone:     copyString(input.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextStudentID++
	s.students = append(s.students, student)
	return copyStudent(student)
}

func (s *Store) insertTeacher(input models.TeacherInput) models.Teacher {
	now := s.clock.Now()
	teacher := models.Teacher{
		ID:        s.nextTeacherID,
		Name:      input.Name,
		Subject:   input.Subject,
		Email:     copyString(input.Email),
		Phone:     copyString(input.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextTeacherID++
	s.teachers = append(s.teachers, teacher)
	return copyTeacher(teacher)
}

func containsFold(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool { return name(items[i]) < name(items[j]) })
}

func stringPtr(s string) *string { return &s }

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyStudent(s models.Student) models.Student {
	s.Email = copyString(s.Email)
	s.Phone = copyString(s.Phone)
	return s
}

func copyTeacher(t models.Teacher) models.Teacher {
	t.Email = copyString(t.Email)
	t.Phone = copyString(t.Phone)
	return t
}

var (
	_ repository.UserRepository    = (*UserRepository)(nil)
	_ repository.StudentRepository = (*StudentRepository)(nil)
	_ repository.TeacherRepository = (*TeacherRepository)(nil)
)
