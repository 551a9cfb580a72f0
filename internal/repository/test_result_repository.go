package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type TestResultRepository struct {
	DB *gorm.DB
}

func NewTestResultRepository(db *gorm.DB) *TestResultRepository {
	return &TestResultRepository{DB: db}
}

func (r *TestResultRepository) Create(result *model.TestResult) error {
	return r.DB.Create(result).Error
}

func (r *TestResultRepository) FindByUser(userID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.DB.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}

func (r *TestResultRepository) FindByUserAndCourse(userID, courseID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("completed_at DESC").
		Find(&results).Error
	return results, err
}

// DeleteByUserAndCourse 课程进度重置时批量清除该课程下的成绩，
// 其他课程的成绩不受影响
func (r *TestResultRepository) DeleteByUserAndCourse(userID, courseID uint) error {
	return r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&model.TestResult{}).Error
}
