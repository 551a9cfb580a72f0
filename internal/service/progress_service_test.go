package service

import (
	"course_platform_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"empty course", 0, 0, 0},
		{"empty course with stale completions", 3, 0, 0},
		{"none completed", 0, 4, 0},
		{"quarter", 1, 4, 25},
		{"half", 2, 4, 50},
		{"full", 4, 4, 100},
		// 课程结构缩水后完成数可能超过总数，只封顶不清洗
		{"clamped over 100", 5, 4, 100},
		{"rounds down", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"rounds half up", 1, 8, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeProgress(tt.completed, tt.total))
		})
	}
}

// 连续完成章节的进度走势：4 章课程逐章完成，
// 重复完成不改变集合，课程缩水后百分比封顶。
func TestProgressAccumulationScenario(t *testing.T) {
	enrollment := &model.Enrollment{CompletedChapters: []uint{}}
	totalChapters := 4

	complete := func(chapterID uint, minutes int) int {
		if !enrollment.HasCompleted(chapterID) {
			enrollment.CompletedChapters = append(enrollment.CompletedChapters, chapterID)
		}
		enrollment.TimeSpent += minutes
		enrollment.Progress = ComputeProgress(len(enrollment.CompletedChapters), totalChapters)
		return enrollment.Progress
	}

	assert.Equal(t, 25, complete(1, 30))
	assert.Equal(t, 50, complete(2, 15))

	// 重复完成同一章节：集合不变，时长照常累计
	assert.Equal(t, 50, complete(2, 10))
	assert.Len(t, enrollment.CompletedChapters, 2)
	assert.Equal(t, 55, enrollment.TimeSpent)

	assert.Equal(t, 75, complete(3, 0))
	assert.Equal(t, 100, complete(4, 5))

	// 额外的章节（课程结构变化后的残留）不会把百分比推过 100
	assert.Equal(t, 100, complete(99, 0))
	assert.Len(t, enrollment.CompletedChapters, 5)
}

func TestResetProgress(t *testing.T) {
	now := time.Now()
	chapterID := uint(3)
	enrollment := &model.Enrollment{
		CompletedChapters: []uint{1, 2, 3},
		Progress:          75,
		TimeSpent:         120,
		LastChapterID:     &chapterID,
		LastAccessedAt:    &now,
		PaymentStatus:     model.PaymentPaid,
	}

	ResetProgress(enrollment)

	assert.Empty(t, enrollment.CompletedChapters)
	assert.NotNil(t, enrollment.CompletedChapters) // 清空为 []，不是 NULL
	assert.Equal(t, 0, enrollment.Progress)
	assert.Equal(t, 0, enrollment.TimeSpent)
	assert.Nil(t, enrollment.LastChapterID)
	assert.Nil(t, enrollment.LastAccessedAt)

	// 报名关系本身的字段不受影响
	assert.Equal(t, model.PaymentPaid, enrollment.PaymentStatus)
}

func TestEnrollmentHasCompleted(t *testing.T) {
	e := &model.Enrollment{CompletedChapters: []uint{3, 7}}
	assert.True(t, e.HasCompleted(3))
	assert.True(t, e.HasCompleted(7))
	assert.False(t, e.HasCompleted(1))

	var empty model.Enrollment
	assert.False(t, empty.HasCompleted(3))
}
