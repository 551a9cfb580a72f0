package model

// AnalyticsOverview 学习分析总览。
// 测试相关字段受时间范围过滤，报名数/完课数/总时长始终是全量口径，
// RecentTests 固定统计最近 7 天，与所选时间范围无关。
type AnalyticsOverview struct {
	TotalCourses     int `json:"totalCourses"`
	CompletedCourses int `json:"completedCourses"`
	TotalTestsTaken  int `json:"totalTestsTaken"`
	AverageScore     int `json:"averageScore"`
	TotalTimeSpent   int `json:"totalTimeSpent"` // 分钟
	RecentTests      int `json:"recentTests"`
}

// CoursePerformance 单门课程的分析明细
type CoursePerformance struct {
	CourseID     uint   `json:"courseId"`
	CourseTitle  string `json:"courseTitle"`
	TestsTaken   int    `json:"testsTaken"`
	AverageScore int    `json:"averageScore"`
	Progress     int    `json:"progress"`
	TimeSpent    int    `json:"timeSpent"` // 分钟
}

// AnalyticsResponse GetAnalytics 的完整返回
type AnalyticsResponse struct {
	Overview          AnalyticsOverview   `json:"overview"`
	CoursePerformance []CoursePerformance `json:"coursePerformance"`
}
