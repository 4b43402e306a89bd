package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sistema-escolar/internal/models"
	appErrors "github.com/noah-isme/sistema-escolar/pkg/errors"
	"github.com/noah-isme/sistema-escolar/pkg/export"
)

// ExportFormat is a roster rendering.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts csv or pdf, defaulting to csv when raw is blank.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportPDF:
		return ExportPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "Formato de exportação inválido (use csv ou pdf)")
	}
}

// ExportResult is a rendered roster.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type studentLister interface {
	List(ctx context.Context, search string) ([]models.Student, error)
}

type teacherLister interface {
	List(ctx context.Context, search string) ([]models.Teacher, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportService renders student and teacher rosters.
type ExportService struct {
	students studentLister
	teachers teacherLister
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(students studentLister, teachers teacherLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter(0)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{students: students, teachers: teachers, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Students renders the students matching search.
func (s *ExportService) Students(ctx context.Context, format ExportFormat, search string) (*ExportResult, error) {
	students, err := s.students.List(ctx, search)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   "Alunos",
		Headers: []string{"ID", "Nome", "Data de Nascimento", "Série/Turma", "Email", "Telefone"},
		Rows:    make([][]string, 0, len(students)),
	}
	for _, st := range students {
		data.Rows = append(data.Rows, []string{
			strconv.FormatInt(st.ID, 10),
			st.Name,
			st.BirthDate.String(),
			st.Grade,
			deref(st.Email),
			deref(st.Phone),
		})
	}
	return s.render(format, "alunos", data)
}

// Teachers renders the teachers matching search.
func (s *ExportService) Teachers(ctx context.Context, format ExportFormat, search string) (*ExportResult, error) {
	teachers, err := s.teachers.List(ctx, search)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   "Professores",
		Headers: []string{"ID", "Nome", "Disciplina", "Email", "Telefone"},
		Rows:    make([][]string, 0, len(teachers)),
	}
	for _, t := range teachers {
		data.Rows = append(data.Rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Name,
			t.Subject,
			deref(t.Email),
			deref(t.Phone),
		})
	}
	return s.render(format, "professores", data)
}

func (s *ExportService) render(format ExportFormat, name string, data export.Dataset) (*ExportResult, error) {
	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportPDF:
		payload, err = s.pdf.Render(data)
		contentType = "application/pdf"
	default:
		format = ExportCSV
		payload, err = s.csv.Render(data)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, appErrors.Internal(err, "Erro ao exportar "+name)
	}

	filename := fmt.Sprintf("%s-%s.%s", name, s.now().Format("20060102"), format)
	s.logger.Info("roster exported", zap.String("file", filename), zap.Int("rows", len(data.Rows)))
	return &ExportResult{Filename: filename, ContentType: contentType, Data: payload}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
