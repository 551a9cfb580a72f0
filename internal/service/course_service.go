package service

import (
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"course_platform_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"course_platform_backend/pkg/logger"
	"course_platform_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	courseCatalogCacheKey = "course_catalog:page:%d:limit:%d"
	courseCatalogCacheTTL = 5 * time.Minute
)

// FlattenChapters 将课程的新旧两种章节结构规范化为带科目上下文的平铺列表。
// 只要课程带有科目结构（哪怕科目下还没有章节），就以科目结构为准；
// 只有完全没有科目的课程才回退到迁移前的平铺章节。
func FlattenChapters(course *model.Course) []model.ChapterView {
	var views []model.ChapterView

	for i := range course.Subjects {
		subject := &course.Subjects[i]
		for _, ch := range subject.Chapters {
			sid := subject.ID
			views = append(views, model.ChapterView{
				Chapter:      ch,
				SubjectID:    &sid,
				SubjectTitle: subject.Title,
			})
		}
	}
	if len(course.Subjects) > 0 {
		return views
	}

	for _, ch := range course.LegacyChapters {
		views = append(views, model.ChapterView{Chapter: ch})
	}
	return views
}

// CountChapters 课程总章节数，新旧结构统一经过规范化视图计算
func CountChapters(course *model.Course) int {
	return len(FlattenChapters(course))
}

type CourseService struct {
	CourseRepo *repository.CourseRepository
	Storage    *StorageService
	Cfg        *config.Config
	Redis      *redis.Client
}

func NewCourseService(courseRepo *repository.CourseRepository, storage *StorageService, cfg *config.Config, rdb *redis.Client) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		Storage:    storage,
		Cfg:        cfg,
		Redis:      rdb,
	}
}

type QuestionReq struct {
	ID            uint     `json:"id"`
	Prompt        string   `json:"prompt" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Order         int      `json:"order"`
}

type ChapterReq struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	PDFURL      *string       `json:"pdfUrl"`
	Order       int           `json:"order"`
	Questions   []QuestionReq `json:"questions"`
}

type SubjectReq struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Order       int          `json:"order"`
	Chapters    []ChapterReq `json:"chapters"`
}

type CourseReq struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Price       *float64      `json:"price"`
	IsFree      *bool         `json:"isFree"`
	Thumbnail   *string       `json:"thumbnail"`
	Subjects    *[]SubjectReq `json:"subjects"`
}

func validateQuestions(chapters []ChapterReq) error {
	for _, ch := range chapters {
		for _, q := range ch.Questions {
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				return fmt.Errorf("question %q: correctAnswer %d out of range [0,%d)", q.Prompt, q.CorrectAnswer, len(q.Options))
			}
		}
	}
	return nil
}

func (s *CourseService) CreateCourse(req CourseReq) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	course := &model.Course{Title: *req.Title}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.IsFree != nil {
		course.IsFree = *req.IsFree
	}
	if req.Thumbnail != nil {
		course.Thumbnail = *req.Thumbnail
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	if req.Subjects != nil {
		for _, subReq := range *req.Subjects {
			if err := validateQuestions(subReq.Chapters); err != nil {
				return nil, err
			}
			if err := s.createSubjectTree(course.ID, subReq); err != nil {
				return nil, err
			}
		}
	}

	monitoring.CoursesCreated.Inc()
	s.invalidateCatalogCache()
	return s.CourseRepo.FindByID(course.ID)
}

func (s *CourseService) createSubjectTree(courseID uint, req SubjectReq) error {
	subject := &model.Subject{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if err := s.CourseRepo.CreateSubject(subject); err != nil {
		return err
	}

	for _, chReq := range req.Chapters {
		sid := subject.ID
		chapter := &model.Chapter{
			CourseID:    courseID,
			SubjectID:   &sid,
			Title:       chReq.Title,
			Description: chReq.Description,
			PDFURL:      chReq.PDFURL,
			Order:       chReq.Order,
		}
		if err := s.CourseRepo.CreateChapter(chapter); err != nil {
			return err
		}

		for _, qReq := range chReq.Questions {
			q := &model.Question{
				ChapterID:     chapter.ID,
				Prompt:        qReq.Prompt,
				Options:       qReq.Options,
				CorrectAnswer: qReq.CorrectAnswer,
				Explanation:   qReq.Explanation,
				Order:         qReq.Order,
			}
			if err := s.CourseRepo.CreateQuestion(q); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateCourse 更新课程主体和科目树。科目按 ID 做 upsert：
// 带已有 ID 的更新，没有 ID 的新建，请求中消失的删除。
func (s *CourseService) UpdateCourse(courseID uint, req CourseReq) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.IsFree != nil {
		course.IsFree = *req.IsFree
	}
	if req.Thumbnail != nil && *req.Thumbnail != course.Thumbnail {
		// 旧封面尽力删除，失败只记日志不阻断编辑
		s.bestEffortDelete(course.Thumbnail)
		course.Thumbnail = *req.Thumbnail
	}

	// Save 只更新主体字段，避免把关联树整个写回
	if err := s.CourseRepo.DB.Model(&model.Course{}).Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"title":       course.Title,
			"description": course.Description,
			"price":       course.Price,
			"is_free":     course.IsFree,
			"thumbnail":   course.Thumbnail,
		}).Error; err != nil {
		return nil, err
	}

	if req.Subjects != nil {
		existingMap := make(map[uint]*model.Subject)
		for i := range course.Subjects {
			existingMap[course.Subjects[i].ID] = &course.Subjects[i]
		}

		keptIDs := make(map[uint]bool)
		for _, subReq := range *req.Subjects {
			if err := validateQuestions(subReq.Chapters); err != nil {
				return nil, err
			}

			if subReq.ID != 0 {
				if existing, ok := existingMap[subReq.ID]; ok {
					existing.Title = subReq.Title
					existing.Description = subReq.Description
					existing.Order = subReq.Order
					if err := s.updateSubjectTree(existing, subReq); err != nil {
						return nil, err
					}
					keptIDs[subReq.ID] = true
					continue
				}
			}
			if err := s.createSubjectTree(courseID, subReq); err != nil {
				return nil, err
			}
		}

		for id := range existingMap {
			if !keptIDs[id] {
				if err := s.CourseRepo.DeleteSubject(id); err != nil {
					return nil, err
				}
			}
		}
	}

	s.invalidateCatalogCache()
	return s.CourseRepo.FindByID(courseID)
}

func (s *CourseService) updateSubjectTree(subject *model.Subject, req SubjectReq) error {
	chaptersBak := subject.Chapters
	subject.Chapters = nil
	if err := s.CourseRepo.UpdateSubject(subject); err != nil {
		return err
	}
	subject.Chapters = chaptersBak

	existingMap := make(map[uint]*model.Chapter)
	for i := range subject.Chapters {
		existingMap[subject.Chapters[i].ID] = &subject.Chapters[i]
	}

	keptIDs := make(map[uint]bool)
	for _, chReq := range req.Chapters {
		if chReq.ID != 0 {
			if existing, ok := existingMap[chReq.ID]; ok {
				existing.Title = chReq.Title
				existing.Description = chReq.Description
				existing.Order = chReq.Order
				if chReq.PDFURL != nil && (existing.PDFURL == nil || *chReq.PDFURL != *existing.PDFURL) {
					if existing.PDFURL != nil {
						s.bestEffortDelete(*existing.PDFURL)
					}
					existing.PDFURL = chReq.PDFURL
				}
				if err := s.updateChapterQuestions(existing, chReq); err != nil {
					return err
				}
				keptIDs[chReq.ID] = true
				continue
			}
		}

		sid := subject.ID
		chapter := &model.Chapter{
			CourseID:    subject.CourseID,
			SubjectID:   &sid,
			Title:       chReq.Title,
			Description: chReq.Description,
			PDFURL:      chReq.PDFURL,
			Order:       chReq.Order,
		}
		if err := s.CourseRepo.CreateChapter(chapter); err != nil {
			return err
		}
		for _, qReq := range chReq.Questions {
			q := &model.Question{
				ChapterID:     chapter.ID,
				Prompt:        qReq.Prompt,
				Options:       qReq.Options,
				CorrectAnswer: qReq.CorrectAnswer,
				Explanation:   qReq.Explanation,
				Order:         qReq.Order,
			}
			if err := s.CourseRepo.CreateQuestion(q); err != nil {
				return err
			}
		}
	}

	for id := range existingMap {
		if !keptIDs[id] {
			if err := s.CourseRepo.DeleteChapter(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *CourseService) updateChapterQuestions(chapter *model.Chapter, req ChapterReq) error {
	questionsBak := chapter.Questions
	chapter.Questions = nil
	if err := s.CourseRepo.UpdateChapter(chapter); err != nil {
		return err
	}
	chapter.Questions = questionsBak

	existingMap := make(map[uint]*model.Question)
	for i := range chapter.Questions {
		existingMap[chapter.Questions[i].ID] = &chapter.Questions[i]
	}

	keptIDs := make(map[uint]bool)
	for _, qReq := range req.Questions {
		if qReq.ID != 0 {
			if existing, ok := existingMap[qReq.ID]; ok {
				existing.Prompt = qReq.Prompt
				existing.Options = qReq.Options
				existing.CorrectAnswer = qReq.CorrectAnswer
				existing.Explanation = qReq.Explanation
				existing.Order = qReq.Order
				if err := s.CourseRepo.UpdateQuestion(existing); err != nil {
					return err
				}
				keptIDs[qReq.ID] = true
				continue
			}
		}
		q := &model.Question{
			ChapterID:     chapter.ID,
			Prompt:        qReq.Prompt,
			Options:       qReq.Options,
			CorrectAnswer: qReq.CorrectAnswer,
			Explanation:   qReq.Explanation,
			Order:         qReq.Order,
		}
		if err := s.CourseRepo.CreateQuestion(q); err != nil {
			return err
		}
	}

	for id := range existingMap {
		if !keptIDs[id] {
			if err := s.CourseRepo.DeleteQuestion(id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *CourseService) DeleteCourse(courseID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}

	if course.Thumbnail != "" {
		s.bestEffortDelete(course.Thumbnail)
	}
	for _, view := range FlattenChapters(course) {
		if view.Chapter.PDFURL != nil {
			s.bestEffortDelete(*view.Chapter.PDFURL)
		}
	}

	if err := s.CourseRepo.Delete(courseID); err != nil {
		return err
	}
	s.invalidateCatalogCache()
	return nil
}

func (s *CourseService) GetCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// ListCourses 公开课程目录，结果短暂缓存于 Redis
func (s *CourseService) ListCourses(ctx context.Context, page, limit int) ([]model.Course, int64, error) {
	cacheKey := fmt.Sprintf(courseCatalogCacheKey, page, limit)

	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached struct {
				Courses []model.Course `json:"courses"`
				Total   int64          `json:"total"`
			}
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached.Courses, cached.Total, nil
			}
		}
	}

	courses, total, err := s.CourseRepo.List(page, limit)
	if err != nil {
		return nil, 0, err
	}

	if s.Redis != nil {
		payload, err := json.Marshal(struct {
			Courses []model.Course `json:"courses"`
			Total   int64          `json:"total"`
		}{courses, total})
		if err == nil {
			if err := s.Redis.Set(ctx, cacheKey, payload, courseCatalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("course catalog cache write failed", zap.Error(err))
			}
		}
	}

	return courses, total, nil
}

// invalidateCatalogCache 管理端写操作后清掉目录缓存
func (s *CourseService) invalidateCatalogCache() {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	iter := s.Redis.Scan(ctx, 0, "course_catalog:*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
}

// SanitizeForStudent 学生视角脱敏：去掉正确答案和解析
func SanitizeForStudent(course *model.Course) {
	for i := range course.Subjects {
		for j := range course.Subjects[i].Chapters {
			sanitizeQuestions(course.Subjects[i].Chapters[j].Questions)
		}
	}
	for i := range course.LegacyChapters {
		sanitizeQuestions(course.LegacyChapters[i].Questions)
	}
}

func sanitizeQuestions(questions []model.Question) {
	for i := range questions {
		questions[i].CorrectAnswer = -1
		questions[i].Explanation = ""
	}
}

// UploadThumbnail 上传课程封面
func (s *CourseService) UploadThumbnail(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", util.ErrInvalidImageExt
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 深度验证 MIME 类型
	if _, err := util.ValidateMimeType(src, []string{util.MimeImage}); err != nil {
		return "", fmt.Errorf("非法的文件内容: %v", err)
	}
	// 重置读取指针
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	filename := "thumbnails/" + time.Now().Format("20060102") + "_" + uuid.New().String() + ext
	return s.Storage.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
}

// UploadChapterPDF 上传章节 PDF 资料
func (s *CourseService) UploadChapterPDF(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", util.ErrInvalidPDFExt
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimePDF}); err != nil {
		return "", fmt.Errorf("非法的文件内容: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	filename := "chapters/" + time.Now().Format("20060102") + "_" + uuid.New().String() + ext
	return s.Storage.Upload(ctx, filename, src, file.Size, file.Header.Get("Content-Type"))
}

// bestEffortDelete 删除被替换的存储对象，失败只记日志
func (s *CourseService) bestEffortDelete(url string) {
	if url == "" {
		return
	}
	base := s.Storage.GetURL("")
	if !strings.HasPrefix(url, base) {
		return
	}
	key := strings.TrimPrefix(url, base)
	if err := s.Storage.Delete(context.Background(), key); err != nil {
		logger.Log.Warn("superseded file delete failed", zap.String("url", url), zap.Error(err))
	}
}
