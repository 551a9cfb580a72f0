package service

import (
	"course_platform_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chapterWithID(id uint, title string) model.Chapter {
	ch := model.Chapter{Title: title}
	ch.ID = id
	return ch
}

func subjectWithID(id uint, title string, chapters ...model.Chapter) model.Subject {
	s := model.Subject{Title: title, Chapters: chapters}
	s.ID = id
	return s
}

func TestFlattenChapters(t *testing.T) {
	t.Run("SubjectsTakePriority", func(t *testing.T) {
		course := &model.Course{
			Subjects: []model.Subject{
				subjectWithID(1, "数学", chapterWithID(10, "第一章"), chapterWithID(11, "第二章")),
				subjectWithID(2, "物理", chapterWithID(20, "绪论")),
			},
			// 同时存在平铺章节时，以科目结构为准
			LegacyChapters: []model.Chapter{chapterWithID(99, "旧章节")},
		}

		views := FlattenChapters(course)
		require.Len(t, views, 3)
		assert.Equal(t, uint(10), views[0].Chapter.ID)
		assert.Equal(t, "数学", views[0].SubjectTitle)
		require.NotNil(t, views[0].SubjectID)
		assert.Equal(t, uint(1), *views[0].SubjectID)
		assert.Equal(t, uint(20), views[2].Chapter.ID)
		assert.Equal(t, "物理", views[2].SubjectTitle)
	})

	t.Run("LegacyFallback", func(t *testing.T) {
		course := &model.Course{
			LegacyChapters: []model.Chapter{chapterWithID(1, "a"), chapterWithID(2, "b")},
		}

		views := FlattenChapters(course)
		require.Len(t, views, 2)
		assert.Nil(t, views[0].SubjectID)
		assert.Empty(t, views[0].SubjectTitle)
	})

	t.Run("EmptySubjectsStillWin", func(t *testing.T) {
		// 科目结构已存在但还没录入章节：以科目结构为准，
		// 平铺的遗留章节不再参与计数
		course := &model.Course{
			Subjects:       []model.Subject{subjectWithID(1, "空科目")},
			LegacyChapters: []model.Chapter{chapterWithID(5, "遗留")},
		}

		assert.Empty(t, FlattenChapters(course))
	})

	t.Run("EmptyCourse", func(t *testing.T) {
		assert.Empty(t, FlattenChapters(&model.Course{}))
	})
}

func TestCountChapters(t *testing.T) {
	tests := []struct {
		name   string
		course *model.Course
		want   int
	}{
		{"empty", &model.Course{}, 0},
		{
			"subjects",
			&model.Course{Subjects: []model.Subject{
				subjectWithID(1, "s1", chapterWithID(1, "a"), chapterWithID(2, "b")),
				subjectWithID(2, "s2", chapterWithID(3, "c")),
			}},
			3,
		},
		{
			"legacy",
			&model.Course{LegacyChapters: []model.Chapter{chapterWithID(1, "a")}},
			1,
		},
		{
			"empty subjects beat legacy",
			&model.Course{
				Subjects:       []model.Subject{subjectWithID(1, "s1")},
				LegacyChapters: []model.Chapter{chapterWithID(1, "a")},
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountChapters(tt.course))
		})
	}
}

func TestSanitizeForStudent(t *testing.T) {
	course := &model.Course{
		Subjects: []model.Subject{
			{Chapters: []model.Chapter{
				{Questions: []model.Question{
					{Prompt: "1+1=?", Options: []string{"1", "2"}, CorrectAnswer: 1, Explanation: "基础算术"},
				}},
			}},
		},
		LegacyChapters: []model.Chapter{
			{Questions: []model.Question{
				{Prompt: "2+2=?", Options: []string{"3", "4"}, CorrectAnswer: 1, Explanation: "同上"},
			}},
		},
	}

	SanitizeForStudent(course)

	q := course.Subjects[0].Chapters[0].Questions[0]
	assert.Equal(t, -1, q.CorrectAnswer)
	assert.Empty(t, q.Explanation)
	assert.Equal(t, []string{"1", "2"}, q.Options)

	lq := course.LegacyChapters[0].Questions[0]
	assert.Equal(t, -1, lq.CorrectAnswer)
	assert.Empty(t, lq.Explanation)
}

func TestValidateQuestions(t *testing.T) {
	tests := []struct {
		name    string
		answer  int
		options []string
		wantErr bool
	}{
		{"valid first", 0, []string{"a", "b"}, false},
		{"valid last", 2, []string{"a", "b", "c"}, false},
		{"negative", -1, []string{"a", "b"}, true},
		{"out of range", 2, []string{"a", "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chapters := []ChapterReq{{
				Title: "ch",
				Questions: []QuestionReq{{
					Prompt:        "q",
					Options:       tt.options,
					CorrectAnswer: tt.answer,
				}},
			}}
			err := validateQuestions(chapters)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
