package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
)

type ProgressService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	TestResultRepo *repository.TestResultRepository
}

func NewProgressService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository, testResultRepo *repository.TestResultRepository) *ProgressService {
	return &ProgressService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		TestResultRepo: testResultRepo,
	}
}

// ComputeProgress 完成百分比 = round(已完成 / 总章节 * 100)，封顶 100。
// 课程结构缩水后完成集合可能超过当前章节数，这里只封顶、不清洗集合，
// 被删章节的完成痕迹保留在数据里。空课程恒为 0。
func ComputeProgress(completed, total int) int {
	if total == 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// UpdateChapterProgress 记录一次章节完成事件：
// 幂等加入完成集合、累计学习时长、按当前课程结构重算百分比。
// 重复完成同一章节不改变集合，但时长照常累计。
func (s *ProgressService) UpdateChapterProgress(userID, courseID, chapterID uint, timeSpentMinutes int) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if !enrollment.HasCompleted(chapterID) {
		enrollment.CompletedChapters = append(enrollment.CompletedChapters, chapterID)
	}

	now := time.Now()
	enrollment.LastChapterID = &chapterID
	enrollment.LastAccessedAt = &now
	if timeSpentMinutes > 0 {
		enrollment.TimeSpent += timeSpentMinutes
	}

	// 每次事件都按课程的实时结构重算，历史百分比不具备持久语义
	enrollment.Progress = ComputeProgress(len(enrollment.CompletedChapters), CountChapters(course))

	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// CourseProgressView 学生端课程进度详情，附带该课程的历次测试成绩
type CourseProgressView struct {
	Enrollment  *model.Enrollment    `json:"enrollment"`
	Chapters    []ChapterProgressRow `json:"chapters"`
	TestResults []model.TestResult   `json:"testResults"`
}

type ChapterProgressRow struct {
	ChapterID    uint    `json:"chapterId"`
	Title        string  `json:"title"`
	SubjectID    *uint   `json:"subjectId,omitempty"`
	SubjectTitle string  `json:"subjectTitle,omitempty"`
	PDFURL       *string `json:"pdfUrl"`
	Order        int     `json:"order"`
	Completed    bool    `json:"completed"`
}

// GetCourseProgress 返回报名记录和逐章完成状态，章节走规范化视图
func (s *ProgressService) GetCourseProgress(userID, courseID uint) (*CourseProgressView, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	views := FlattenChapters(course)
	rows := make([]ChapterProgressRow, 0, len(views))
	for _, v := range views {
		rows = append(rows, ChapterProgressRow{
			ChapterID:    v.Chapter.ID,
			Title:        v.Chapter.Title,
			SubjectID:    v.SubjectID,
			SubjectTitle: v.SubjectTitle,
			PDFURL:       v.Chapter.PDFURL,
			Order:        v.Chapter.Order,
			Completed:    enrollment.HasCompleted(v.Chapter.ID),
		})
	}

	results, err := s.TestResultRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	return &CourseProgressView{Enrollment: enrollment, Chapters: rows, TestResults: results}, nil
}

// ResetProgress 把报名记录上的全部学习痕迹清成初始状态，报名关系本身保留
func ResetProgress(enrollment *model.Enrollment) {
	enrollment.CompletedChapters = []uint{}
	enrollment.Progress = 0
	enrollment.TimeSpent = 0
	enrollment.LastChapterID = nil
	enrollment.LastAccessedAt = nil
}

// ResetCourseProgress 清空单门课程的进度和成绩，报名关系保留。
// 其他课程的数据不受影响。
func (s *ProgressService) ResetCourseProgress(userID, courseID uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	ResetProgress(enrollment)

	if err := s.EnrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}
	if err := s.TestResultRepo.DeleteByUserAndCourse(userID, courseID); err != nil {
		return nil, err
	}
	return enrollment, nil
}
