package model

// Course 课程主体，由管理员创建和维护，学生只读。
// 章节结构经历过一次从平铺到按科目分组的迁移且未回填历史数据，
// 因此 Subjects 和平铺的 LegacyChapters（SubjectID 为 NULL）可能同时存在。
// swagger:model Course
type Course struct {
	BaseModel
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"default:0" json:"price"`
	IsFree      bool      `gorm:"default:false" json:"isFree"`
	Thumbnail   string    `gorm:"size:255" json:"thumbnail"`
	Subjects    []Subject `gorm:"constraint:OnDelete:CASCADE" json:"subjects"`

	// 迁移前的平铺章节，永久兼容分支
	LegacyChapters []Chapter `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Subject
type Subject struct {
	BaseModel
	CourseID    uint      `gorm:"index;not null" json:"courseId"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Order       int       `gorm:"default:0" json:"order"`
	Chapters    []Chapter `gorm:"constraint:OnDelete:CASCADE" json:"chapters"`
}

func (Subject) TableName() string {
	return "subjects"
}

// Chapter 课程内容的原子单元：PDF 资料 + 章节测试题。
// SubjectID 为 NULL 表示迁移前的平铺章节。
// swagger:model Chapter
type Chapter struct {
	BaseModel
	CourseID    uint       `gorm:"index" json:"courseId"`
	SubjectID   *uint      `gorm:"index" json:"subjectId,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	PDFURL      *string    `gorm:"size:255" json:"pdfUrl"`
	Order       int        `gorm:"default:0" json:"order"`
	Questions   []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// Question 章节测试题。Options 顺序即答案下标空间，CorrectAnswer 为选项下标。
// swagger:model Question
type Question struct {
	BaseModel
	ChapterID     uint     `gorm:"index;not null" json:"chapterId"`
	Prompt        string   `gorm:"type:text;not null" json:"prompt"`
	Options       []string `gorm:"serializer:json;type:json" json:"options"`
	CorrectAnswer int      `gorm:"not null" json:"correctAnswer"`
	Explanation   string   `gorm:"type:text" json:"explanation"`
	Order         int      `gorm:"default:0" json:"order"`
}

func (Question) TableName() string {
	return "questions"
}

// ChapterView 规范化后的章节视图：平铺章节列表并附带科目上下文，
// 新旧两种课程结构在数据访问边界统一成这一种形态，下游不再分支。
type ChapterView struct {
	Chapter      Chapter
	SubjectID    *uint
	SubjectTitle string
}
