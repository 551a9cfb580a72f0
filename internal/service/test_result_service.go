package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"errors"
	"time"

	"course_platform_backend/pkg/logger"
	"course_platform_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TestResultService struct {
	TestResultRepo *repository.TestResultRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewTestResultService(testResultRepo *repository.TestResultRepository, enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *TestResultService {
	return &TestResultService{
		TestResultRepo: testResultRepo,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
	}
}

type SaveTestResultReq struct {
	CourseID       uint               `json:"courseId" binding:"required"`
	ChapterID      uint               `json:"chapterId" binding:"required"`
	Score          int                `json:"score"`
	TotalQuestions int                `json:"totalQuestions" binding:"required"`
	CorrectAnswers int                `json:"correctAnswers"`
	TimeSpent      int                `json:"timeSpent"` // 秒
	Answers        []model.TestAnswer `json:"answers"`
}

// SaveTestResult 保存一次章节测试成绩，只追加。
// 分数以客户端上报为准；服务端按答题明细复算一份，
// 不一致时记日志供后续排查，不拒绝也不改写。
func (s *TestResultService) SaveTestResult(userID uint, req SaveTestResultReq) (*model.TestResult, error) {
	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	s.auditReportedScore(userID, req)

	result := &model.TestResult{
		UserID:         userID,
		CourseID:       req.CourseID,
		ChapterID:      req.ChapterID,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		TimeSpent:      req.TimeSpent,
		Answers:        req.Answers,
		CompletedAt:    time.Now(),
	}
	if err := s.TestResultRepo.Create(result); err != nil {
		return nil, err
	}
	monitoring.TestSubmissions.Inc()
	return result, nil
}

// auditReportedScore 按题库复算客户端上报的成绩，只记日志不改写。
// 章节被删或题目集对不上时放弃复算。
func (s *TestResultService) auditReportedScore(userID uint, req SaveTestResultReq) {
	if len(req.Answers) == 0 {
		return
	}

	chapter, err := s.CourseRepo.FindChapterByID(req.ChapterID)
	if err != nil {
		return
	}

	correctByQuestion := make(map[uint]int, len(chapter.Questions))
	for _, q := range chapter.Questions {
		correctByQuestion[q.ID] = q.CorrectAnswer
	}

	correct := 0
	for _, a := range req.Answers {
		want, ok := correctByQuestion[a.QuestionID]
		if !ok {
			// 答卷里出现题库之外的题目，无法复算
			return
		}
		if a.SelectedAnswer == want {
			correct++
		}
	}

	if correct != req.CorrectAnswers {
		logger.Log.Warn("reported test score differs from question bank",
			zap.Uint("userId", userID),
			zap.Uint("chapterId", req.ChapterID),
			zap.Int("reported", req.CorrectAnswers),
			zap.Int("recomputed", correct),
		)
	}
}

// GetTestResults 学生在某门课程下的历次成绩，最新在前
func (s *TestResultService) GetTestResults(userID, courseID uint) ([]model.TestResult, error) {
	return s.TestResultRepo.FindByUserAndCourse(userID, courseID)
}
