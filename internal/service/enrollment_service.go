package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"errors"
	"time"

	"course_platform_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
	}
}

// Enroll 学生报名课程。免费课直接生效，付费课进入待支付状态。
func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if _, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := model.PaymentPending
	if course.IsFree {
		status = model.PaymentFree
	}

	enrollment := &model.Enrollment{
		UserID:            userID,
		CourseID:          courseID,
		EnrolledAt:        time.Now(),
		PaymentStatus:     status,
		CompletedChapters: []uint{},
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	monitoring.Enrollments.Inc()
	enrollment.Course = course
	return enrollment, nil
}

// ConfirmPayment 支付回调确认后置为已支付
func (s *EnrollmentService) ConfirmPayment(userID, courseID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEnrollmentNotFound
		}
		return err
	}
	return s.EnrollmentRepo.UpdatePaymentStatus(enrollment.ID, model.PaymentPaid)
}

// ListMyCourses 学生已报名课程列表，按报名时间倒序
func (s *EnrollmentService) ListMyCourses(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByUser(userID)
}

func (s *EnrollmentService) CountByCourse(courseID uint) (int64, error) {
	return s.EnrollmentRepo.CountByCourse(courseID)
}
