package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adiborse/online-examination-system/internal/model"
	"github.com/adiborse/online-examination-system/internal/repository"
	"github.com/adiborse/online-examination-system/internal/response"
)

// ErrQuestionNotFound is returned for missing or soft-deleted questions.
var ErrQuestionNotFound = errors.New("question not found")

// QuestionService handles administrative question management. Deletion is a
// soft delete: deactivated questions stop appearing in new exams but remain
// resolvable for in-progress session snapshots.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo}
}

// Create adds a new question authored by the given admin.
func (s *QuestionService) Create(ctx context.Context, authorID int, req model.SaveQuestionRequest) (*model.Question, error) {
	question := &model.Question{
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectAnswer: *req.CorrectAnswer,
		Difficulty:    difficultyOrDefault(req.Difficulty),
		Subject:       req.Subject,
		Category:      req.Category,
		IsActive:      true,
		CreatedBy:     authorID,
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return question, nil
}

// Update replaces all editable fields of an active question.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req model.SaveQuestionRequest) (*model.Question, error) {
	question, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	question.QuestionText = req.QuestionText
	question.Options = req.Options
	question.CorrectAnswer = *req.CorrectAnswer
	question.Difficulty = difficultyOrDefault(req.Difficulty)
	question.Subject = req.Subject
	question.Category = req.Category

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return question, nil
}

// Delete soft-deletes a question.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.questionRepo.SoftDelete(ctx, id)
}

// Get retrieves an active question. Soft-deleted questions read as missing
// on the admin surface.
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	if !question.IsActive {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

// List retrieves a page of active questions, newest first.
func (s *QuestionService) List(ctx context.Context, page, perPage int) ([]model.Question, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	questions, total, err := s.questionRepo.ListActivePage(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}

	if questions == nil {
		questions = []model.Question{}
	}

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	return questions, pagination, nil
}

func difficultyOrDefault(raw string) model.Difficulty {
	if raw == "" {
		return model.DifficultyMedium
	}
	return model.Difficulty(raw)
}
