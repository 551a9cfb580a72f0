package model

import "time"

type PaymentStatus string

const (
	PaymentFree    PaymentStatus = "free"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Enrollment 学生与课程的关联，一个学生一门课程只有一条记录。
// 进度字段直接内嵌：CompletedChapters 只关心成员资格，插入顺序无意义；
// Progress 是派生值，每次章节完成事件都会按当前课程结构重新计算；
// TimeSpent 只增不减（显式重置除外），累计的是总投入时长而非去重时长。
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID        uint          `gorm:"index;uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID      uint          `gorm:"uniqueIndex:idx_user_course;not null" json:"courseId"`
	Course        *Course       `json:"course,omitempty"`
	EnrolledAt    time.Time     `json:"enrolledAt"`
	PaymentStatus PaymentStatus `gorm:"type:enum('free','pending','paid');default:'pending'" json:"paymentStatus"`

	CompletedChapters []uint     `gorm:"serializer:json;type:json" json:"completedChapters"`
	LastChapterID     *uint      `json:"lastChapterId"`
	LastAccessedAt    *time.Time `json:"lastAccessedAt"`
	Progress          int        `gorm:"default:0" json:"progress"`
	TimeSpent         int        `gorm:"default:0" json:"timeSpent"` // 分钟
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// HasCompleted 判断章节是否已在完成集合中
func (e *Enrollment) HasCompleted(chapterID uint) bool {
	for _, id := range e.CompletedChapters {
		if id == chapterID {
			return true
		}
	}
	return false
}
