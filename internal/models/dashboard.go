package models

// DashboardStats aggregates the entity totals shown on the dashboard.
type DashboardStats struct {
	TotalUsers    int `json:"totalUsuarios"`
	TotalStudents int `json:"totalAlunos"`
	TotalTeachers int `json:"totalProfessores"`
}
