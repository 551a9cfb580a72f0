package service

import (
	"course_platform_backend/internal/model"
	"course_platform_backend/internal/repository"
	"math"
	"time"
)

type AnalyticsService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	TestResultRepo *repository.TestResultRepository
}

func NewAnalyticsService(enrollmentRepo *repository.EnrollmentRepository, testResultRepo *repository.TestResultRepository) *AnalyticsService {
	return &AnalyticsService{
		EnrollmentRepo: enrollmentRepo,
		TestResultRepo: testResultRepo,
	}
}

// TimeRangeCutoff 把时间范围参数换算成过滤下界。
// week = 最近 7 天，month = 最近 30 天，其余取值一律视为全量。
func TimeRangeCutoff(timeRange string, now time.Time) (time.Time, bool) {
	switch timeRange {
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

// BuildAnalytics 纯计算部分，便于直接喂数据测试。
// 只有测试口径的字段受时间范围过滤；报名数和完课数始终按全量计算，
// 总时长和逐课程明细只统计课程引用仍可解析的报名，
// RecentTests 固定统计最近 7 天。
func BuildAnalytics(enrollments []model.Enrollment, results []model.TestResult, timeRange string, now time.Time) *model.AnalyticsResponse {
	cutoff, filtered := TimeRangeCutoff(timeRange, now)

	var inRange []model.TestResult
	if filtered {
		for _, r := range results {
			if !r.CompletedAt.Before(cutoff) {
				inRange = append(inRange, r)
			}
		}
	} else {
		inRange = results
	}

	overview := model.AnalyticsOverview{
		TotalCourses:    len(enrollments),
		TotalTestsTaken: len(inRange),
	}

	for _, e := range enrollments {
		if e.Progress >= 100 {
			overview.CompletedCourses++
		}
		// 课程被删后报名会残留，Course 悬空的记录不计入总时长
		if e.Course != nil {
			overview.TotalTimeSpent += e.TimeSpent
		}
	}

	if len(inRange) > 0 {
		sum := 0
		for _, r := range inRange {
			sum += r.Score
		}
		overview.AverageScore = int(math.Round(float64(sum) / float64(len(inRange))))
	}

	recentCutoff := now.AddDate(0, 0, -7)
	for _, r := range results {
		if !r.CompletedAt.Before(recentCutoff) {
			overview.RecentTests++
		}
	}

	byCourse := make(map[uint][]model.TestResult)
	for _, r := range inRange {
		byCourse[r.CourseID] = append(byCourse[r.CourseID], r)
	}

	performance := make([]model.CoursePerformance, 0, len(enrollments))
	for _, e := range enrollments {
		// 明细只列课程引用仍可解析的报名
		if e.Course == nil {
			continue
		}
		perf := model.CoursePerformance{
			CourseID:    e.CourseID,
			CourseTitle: e.Course.Title,
			Progress:    e.Progress,
			TimeSpent:   e.TimeSpent,
		}
		courseResults := byCourse[e.CourseID]
		perf.TestsTaken = len(courseResults)
		if len(courseResults) > 0 {
			sum := 0
			for _, r := range courseResults {
				sum += r.Score
			}
			perf.AverageScore = int(math.Round(float64(sum) / float64(len(courseResults))))
		}
		performance = append(performance, perf)
	}

	return &model.AnalyticsResponse{
		Overview:          overview,
		CoursePerformance: performance,
	}
}

// GetAnalytics 学生学习分析，timeRange 取 all/week/month
func (s *AnalyticsService) GetAnalytics(userID uint, timeRange string) (*model.AnalyticsResponse, error) {
	enrollments, err := s.EnrollmentRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	results, err := s.TestResultRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	return BuildAnalytics(enrollments, results, timeRange, time.Now()), nil
}
