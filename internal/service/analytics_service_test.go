package service

import (
	"course_platform_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultAt(courseID uint, score int, completedAt time.Time) model.TestResult {
	return model.TestResult{CourseID: courseID, Score: score, CompletedAt: completedAt}
}

func TestTimeRangeCutoff(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		timeRange string
		filtered  bool
		days      int
	}{
		{"week", true, 7},
		{"month", true, 30},
		{"all", false, 0},
		{"", false, 0},
		{"bogus", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.timeRange, func(t *testing.T) {
			cutoff, filtered := TimeRangeCutoff(tt.timeRange, now)
			assert.Equal(t, tt.filtered, filtered)
			if filtered {
				assert.Equal(t, now.AddDate(0, 0, -tt.days), cutoff)
			}
		})
	}
}

func TestBuildAnalyticsTimeRanges(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	enrollments := []model.Enrollment{{CourseID: 1}}
	results := []model.TestResult{
		resultAt(1, 100, now),
		resultAt(1, 80, now.AddDate(0, 0, -3)),
		resultAt(1, 60, now.AddDate(0, 0, -10)),
		resultAt(1, 40, now.AddDate(0, 0, -40)),
	}

	tests := []struct {
		timeRange string
		wantTests int
	}{
		{"all", 4},
		{"week", 2},
		{"month", 3},
	}

	for _, tt := range tests {
		t.Run(tt.timeRange, func(t *testing.T) {
			resp := BuildAnalytics(enrollments, results, tt.timeRange, now)
			assert.Equal(t, tt.wantTests, resp.Overview.TotalTestsTaken)
			// RecentTests 固定最近 7 天，不随所选范围变化
			assert.Equal(t, 2, resp.Overview.RecentTests)
		})
	}
}

func TestBuildAnalyticsOverview(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	course1 := &model.Course{Title: "Go 入门"}
	course2 := &model.Course{Title: "算法基础"}
	enrollments := []model.Enrollment{
		{CourseID: 1, Course: course1, Progress: 100, TimeSpent: 120},
		{CourseID: 2, Course: course2, Progress: 40, TimeSpent: 45},
	}
	results := []model.TestResult{
		resultAt(1, 80, now),
		resultAt(1, 60, now.AddDate(0, 0, -1)),
		resultAt(2, 100, now.AddDate(0, 0, -2)),
	}

	resp := BuildAnalytics(enrollments, results, "all", now)

	assert.Equal(t, 2, resp.Overview.TotalCourses)
	assert.Equal(t, 1, resp.Overview.CompletedCourses)
	assert.Equal(t, 3, resp.Overview.TotalTestsTaken)
	// [80,60,100] 平均 80
	assert.Equal(t, 80, resp.Overview.AverageScore)
	assert.Equal(t, 165, resp.Overview.TotalTimeSpent)

	require.Len(t, resp.CoursePerformance, 2)
	p1 := resp.CoursePerformance[0]
	assert.Equal(t, uint(1), p1.CourseID)
	assert.Equal(t, "Go 入门", p1.CourseTitle)
	assert.Equal(t, 2, p1.TestsTaken)
	assert.Equal(t, 70, p1.AverageScore)
	assert.Equal(t, 100, p1.Progress)
	assert.Equal(t, 120, p1.TimeSpent)

	p2 := resp.CoursePerformance[1]
	assert.Equal(t, 1, p2.TestsTaken)
	assert.Equal(t, 100, p2.AverageScore)
}

func TestBuildAnalyticsDanglingCourse(t *testing.T) {
	now := time.Now()
	course := &model.Course{Title: "存活课程"}
	enrollments := []model.Enrollment{
		{CourseID: 1, Course: course, Progress: 50, TimeSpent: 10},
		// 课程被删后残留的报名：不计时长，也不出现在明细里
		{CourseID: 2, Course: nil, Progress: 100, TimeSpent: 300},
	}

	resp := BuildAnalytics(enrollments, nil, "all", now)
	assert.Equal(t, 2, resp.Overview.TotalCourses)
	assert.Equal(t, 10, resp.Overview.TotalTimeSpent)
	require.Len(t, resp.CoursePerformance, 1)
	assert.Equal(t, uint(1), resp.CoursePerformance[0].CourseID)
	assert.Equal(t, "存活课程", resp.CoursePerformance[0].CourseTitle)
}

func TestBuildAnalyticsTimeSpentUnfiltered(t *testing.T) {
	now := time.Now()
	enrollments := []model.Enrollment{{CourseID: 1, Course: &model.Course{Title: "c"}, TimeSpent: 300}}
	results := []model.TestResult{resultAt(1, 50, now.AddDate(0, 0, -60))}

	// week 范围内没有任何测试，但总时长仍按全量累计
	resp := BuildAnalytics(enrollments, results, "week", now)
	assert.Equal(t, 0, resp.Overview.TotalTestsTaken)
	assert.Equal(t, 0, resp.Overview.AverageScore)
	assert.Equal(t, 300, resp.Overview.TotalTimeSpent)
	require.Len(t, resp.CoursePerformance, 1)
	assert.Equal(t, 0, resp.CoursePerformance[0].TestsTaken)
	assert.Equal(t, 300, resp.CoursePerformance[0].TimeSpent)
}

func TestBuildAnalyticsEmpty(t *testing.T) {
	resp := BuildAnalytics(nil, nil, "all", time.Now())
	assert.Equal(t, 0, resp.Overview.TotalCourses)
	assert.Equal(t, 0, resp.Overview.AverageScore)
	assert.Empty(t, resp.CoursePerformance)
}

func TestBuildAnalyticsWindowBoundary(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	results := []model.TestResult{
		// 恰好落在 7 天边界上，算在范围内
		resultAt(1, 90, now.AddDate(0, 0, -7)),
		resultAt(1, 10, now.AddDate(0, 0, -7).Add(-time.Second)),
	}

	resp := BuildAnalytics([]model.Enrollment{{CourseID: 1}}, results, "week", now)
	assert.Equal(t, 1, resp.Overview.TotalTestsTaken)
	assert.Equal(t, 90, resp.Overview.AverageScore)
}
