package repository

import (
	"course_platform_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

// FindByID 加载完整课程结构：科目、章节、题目，保持录入顺序。
// LegacyChapters 只取 SubjectID 为 NULL 的平铺章节（迁移前数据）。
func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Subjects", func(db *gorm.DB) *gorm.DB {
			return db.Order("subjects.order ASC, subjects.id ASC")
		}).
		Preload("Subjects.Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.order ASC, chapters.id ASC")
		}).
		Preload("Subjects.Chapters.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order ASC, questions.id ASC")
		}).
		Preload("LegacyChapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("chapters.subject_id IS NULL").Order("chapters.order ASC, chapters.id ASC")
		}).
		Preload("LegacyChapters.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order ASC, questions.id ASC")
		}).
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) List(page, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.
		Preload("Subjects", func(db *gorm.DB) *gorm.DB {
			return db.Order("subjects.order ASC, subjects.id ASC")
		}).
		Preload("Subjects.Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.order ASC, chapters.id ASC")
		}).
		Preload("LegacyChapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("chapters.subject_id IS NULL").Order("chapters.order ASC, chapters.id ASC")
		}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete 级联删除课程及其科目/章节/题目
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var chapterIDs []uint
		if err := tx.Model(&model.Chapter{}).Where("course_id = ?", id).Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}
		if len(chapterIDs) > 0 {
			if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Subject{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}

func (r *CourseRepository) CreateSubject(subject *model.Subject) error {
	return r.DB.Create(subject).Error
}

func (r *CourseRepository) UpdateSubject(subject *model.Subject) error {
	return r.DB.Save(subject).Error
}

func (r *CourseRepository) DeleteSubject(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var chapterIDs []uint
		if err := tx.Model(&model.Chapter{}).Where("subject_id = ?", id).Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}
		if len(chapterIDs) > 0 {
			if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("subject_id = ?", id).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Subject{}, id).Error
	})
}

func (r *CourseRepository) FindChapterByID(id uint) (*model.Chapter, error) {
	var chapter model.Chapter
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.order ASC, questions.id ASC")
	}).First(&chapter, id).Error
	return &chapter, err
}

func (r *CourseRepository) CreateChapter(chapter *model.Chapter) error {
	return r.DB.Create(chapter).Error
}

func (r *CourseRepository) UpdateChapter(chapter *model.Chapter) error {
	return r.DB.Save(chapter).Error
}

func (r *CourseRepository) DeleteChapter(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chapter_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Chapter{}, id).Error
	})
}

func (r *CourseRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *CourseRepository) UpdateQuestion(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *CourseRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}
