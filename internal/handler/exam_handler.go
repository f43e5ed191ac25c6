package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/adiborse/online-examination-system/internal/middleware"
	"github.com/adiborse/online-examination-system/internal/model"
	"github.com/adiborse/online-examination-system/internal/response"
	"github.com/adiborse/online-examination-system/internal/service"
	"github.com/adiborse/online-examination-system/internal/validator"
)

// ExamHandler handles the student exam-taking flow.
type ExamHandler struct {
	examService      *service.ExamService
	dashboardService *service.DashboardService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService, dashboardService *service.DashboardService) *ExamHandler {
	return &ExamHandler{
		examService:      examService,
		dashboardService: dashboardService,
	}
}

// GetDashboard godoc
// GET /api/v1/exam/dashboard
// Recent history, active question count, and best score for the student.
func (h *ExamHandler) GetDashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	dashboard, err := h.dashboardService.GetStudentDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, dashboard)
}

// StartExam godoc
// GET /api/v1/exam/start
// Starts a new attempt or resumes the existing one at its current position.
func (h *ExamHandler) StartExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	start, err := h.examService.StartExam(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestionsAvailable) {
			response.Fail(c, http.StatusBadRequest, response.ErrNoQuestionsAvailable)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, start)
}

// GetQuestion godoc
// GET /api/v1/exam/question/:index
// Renders one question. An expired attempt answers with a submit redirect
// instead of question content; the client must then call the submit endpoint.
func (h *ExamHandler) GetQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidExamSession)
		return
	}

	view, err := h.examService.GetQuestion(c.Request.Context(), claims.UserID, index)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExamExpired):
			response.Success(c, http.StatusOK, gin.H{"redirect": "submit"})
		case errors.Is(err, service.ErrInvalidSession):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidExamSession)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, view)
}

// SaveAnswer godoc
// POST /api/v1/exam/save-answer
// Upserts the posted answer and returns the navigation target.
func (h *ExamHandler) SaveAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SaveAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	nav, err := h.examService.SaveAnswer(c.Request.Context(), claims.UserID, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidExamSession)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, nav)
}

// SubmitExam godoc
// GET|POST /api/v1/exam/submit
// Scores the attempt, persists the result, and clears the session.
func (h *ExamHandler) SubmitExam(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	result, err := h.examService.Submit(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidExamSession)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result_id": result.ID})
}

// GetResult godoc
// GET /api/v1/exam/result/:result_id
// Owner-only result view.
func (h *ExamHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	resultID, err := uuid.Parse(c.Param("result_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.examService.GetResult(c.Request.Context(), claims.UserID, resultID)
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrResultNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetStatus godoc
// GET /api/v1/exam/status
// Timer polling endpoint; never mutates the session and never submits.
func (h *ExamHandler) GetStatus(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	status, err := h.examService.GetStatus(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidExamSession)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, status)
}
