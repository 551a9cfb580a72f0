package model

import "time"

// TestAnswer 单题作答记录
type TestAnswer struct {
	QuestionID     uint `json:"questionId"`
	SelectedAnswer int  `json:"selectedAnswer"`
	IsCorrect      bool `json:"isCorrect"`
	TimeSpent      int  `json:"timeSpent"` // 秒
}

// TestResult 一次章节模拟测试的成绩，只追加不修改；
// 重复作答产生新记录，没有唯一性约束，也没有保留上限。
// swagger:model TestResult
type TestResult struct {
	BaseModel
	UserID         uint         `gorm:"index;not null" json:"userId"`
	CourseID       uint         `gorm:"index;not null" json:"courseId"`
	ChapterID      uint         `gorm:"index;not null" json:"chapterId"`
	Score          int          `gorm:"not null" json:"score"`
	TotalQuestions int          `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int          `gorm:"not null" json:"correctAnswers"`
	TimeSpent      int          `json:"timeSpent"` // 秒
	Answers        []TestAnswer `gorm:"serializer:json;type:json" json:"answers"`
	CompletedAt    time.Time    `gorm:"index" json:"completedAt"`
}

func (TestResult) TableName() string {
	return "test_results"
}
