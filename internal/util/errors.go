package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrCourseNotFound     = errors.New("course not found")
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidGoogleToken = errors.New("invalid google id token")
	ErrUsernameTaken      = errors.New("该用户名已被注册")
	ErrInvalidImageExt    = errors.New("仅支持 JPG/PNG/WebP 图片")
	ErrInvalidPDFExt      = errors.New("仅支持 PDF 文件")
)
