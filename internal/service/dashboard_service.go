package service

import (
	"context"
	"fmt"

	"github.com/adiborse/online-examination-system/internal/model"
	"github.com/adiborse/online-examination-system/internal/repository"
	"github.com/adiborse/online-examination-system/internal/response"
)

// StudentDashboard summarizes a student's exam history.
type StudentDashboard struct {
	ExamHistory    []model.Result `json:"exam_history"`
	TotalQuestions int            `json:"total_questions"`
	BestScore      float64        `json:"best_score"`
}

// AdminStats holds the admin dashboard headline counts.
type AdminStats struct {
	TotalQuestions int `json:"total_questions"`
	TotalStudents  int `json:"total_students"`
	TotalExams     int `json:"total_exams"`
}

// AdminDashboard consolidates the admin landing page data.
type AdminDashboard struct {
	Stats         AdminStats                  `json:"stats"`
	RecentResults []repository.ResultWithUser `json:"recent_results"`
}

// DashboardService aggregates read-only overview data for both roles.
type DashboardService struct {
	questionRepo *repository.QuestionRepository
	resultRepo   *repository.ResultRepository
	userRepo     *repository.UserRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	questionRepo *repository.QuestionRepository,
	resultRepo *repository.ResultRepository,
	userRepo *repository.UserRepository,
) *DashboardService {
	return &DashboardService{
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		userRepo:     userRepo,
	}
}

// GetStudentDashboard returns the student's recent history, the size of the
// active question pool, and their best percentage so far.
func (s *DashboardService) GetStudentDashboard(ctx context.Context, userID int) (*StudentDashboard, error) {
	history, err := s.resultRepo.ListByUser(ctx, userID, 5)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if history == nil {
		history = []model.Result{}
	}

	totalQuestions, err := s.questionRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	best, err := s.resultRepo.BestPercentage(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("best percentage: %w", err)
	}

	return &StudentDashboard{
		ExamHistory:    history,
		TotalQuestions: totalQuestions,
		BestScore:      best,
	}, nil
}

// GetAdminDashboard returns headline counts and the five most recent results.
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	totalQuestions, err := s.questionRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	totalStudents, err := s.userRepo.CountActiveStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}

	totalExams, err := s.resultRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	recent, err := s.resultRepo.ListRecent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	if recent == nil {
		recent = []repository.ResultWithUser{}
	}

	return &AdminDashboard{
		Stats: AdminStats{
			TotalQuestions: totalQuestions,
			TotalStudents:  totalStudents,
			TotalExams:     totalExams,
		},
		RecentResults: recent,
	}, nil
}

// ListResults retrieves a page of all results for the admin view along with
// aggregate percentage statistics.
func (s *DashboardService) ListResults(ctx context.Context, page, perPage int) ([]repository.ResultWithUser, *repository.ResultStats, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	results, total, err := s.resultRepo.ListPage(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, nil, err
	}
	if results == nil {
		results = []repository.ResultWithUser{}
	}

	stats, err := s.resultRepo.Stats(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return results, stats, pagination, nil
}
