package repository

import (
	"course_platform_backend/internal/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	return gdb, mock
}

// 成绩保存后按课程取回，答题明细经 JSON 列往返不丢失
func TestTestResultRepository_SaveThenFetch(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewTestResultRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `test_results`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	completedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	result := &model.TestResult{
		UserID:         9,
		CourseID:       4,
		ChapterID:      2,
		Score:          80,
		TotalQuestions: 5,
		CorrectAnswers: 4,
		TimeSpent:      90,
		Answers: []model.TestAnswer{
			{QuestionID: 7, SelectedAnswer: 1, IsCorrect: true, TimeSpent: 30},
		},
		CompletedAt: completedAt,
	}
	require.NoError(t, repo.Create(result))

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "course_id", "chapter_id", "score",
		"total_questions", "correct_answers", "time_spent", "answers", "completed_at",
	}).AddRow(
		1, 9, 4, 2, 80,
		5, 4, 90, []byte(`[{"questionId":7,"selectedAnswer":1,"isCorrect":true,"timeSpent":30}]`), completedAt,
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `test_results`")).
		WithArgs(9, 4).
		WillReturnRows(rows)

	fetched, err := repo.FindByUserAndCourse(9, 4)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.Equal(t, 80, fetched[0].Score)
	assert.Equal(t, 5, fetched[0].TotalQuestions)
	require.Len(t, fetched[0].Answers, 1)
	assert.Equal(t, uint(7), fetched[0].Answers[0].QuestionID)
	assert.Equal(t, 1, fetched[0].Answers[0].SelectedAnswer)
	assert.True(t, fetched[0].Answers[0].IsCorrect)
	assert.Equal(t, completedAt, fetched[0].CompletedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

// 进度重置只清除该学生该课程的成绩，删除语句必须同时带上两个条件
func TestTestResultRepository_DeleteScopedToUserAndCourse(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewTestResultRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `test_results` SET `deleted_at`")).
		WithArgs(sqlmock.AnyArg(), 9, 4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteByUserAndCourse(9, 4))
	require.NoError(t, mock.ExpectationsWereMet())
}
