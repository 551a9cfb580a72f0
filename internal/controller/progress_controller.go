package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService   *service.ProgressService
	TestResultService *service.TestResultService
}

func NewProgressController(progressService *service.ProgressService, testResultService *service.TestResultService) *ProgressController {
	return &ProgressController{
		ProgressService:   progressService,
		TestResultService: testResultService,
	}
}

// swagger:model UpdateChapterProgressRequest
type UpdateChapterProgressRequest struct {
	ChapterID uint `json:"chapterId" binding:"required"`
	TimeSpent int  `json:"timeSpent"` // 分钟
}

// UpdateChapterProgress godoc
// @Summary 记录章节完成
// @Description 标记章节完成并累计学习时长，重复提交幂等，时长照常累计
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Param   body body UpdateChapterProgressRequest true "章节完成事件"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 404 {object} util.Response "未报名该课程"
// @Router /api/courses/{id}/progress [post]
func (c *ProgressController) UpdateChapterProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	var req UpdateChapterProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.ProgressService.UpdateChapterProgress(claims.UserID, uint(courseID), req.ChapterID, req.TimeSpent)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) || errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// GetCourseProgress godoc
// @Summary 课程进度详情
// @Description 报名记录加逐章完成状态
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgressView} "成功"
// @Failure 404 {object} util.Response "未报名该课程"
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	view, err := c.ProgressService.GetCourseProgress(claims.UserID, uint(courseID))
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) || errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// ResetCourseProgress godoc
// @Summary 重置课程进度
// @Description 清空该课程的进度、时长和全部测试成绩，报名关系保留
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Enrollment} "成功"
// @Failure 404 {object} util.Response "未报名该课程"
// @Router /api/courses/{id}/progress/reset [post]
func (c *ProgressController) ResetCourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	enrollment, err := c.ProgressService.ResetCourseProgress(claims.UserID, uint(courseID))
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, enrollment)
}

// SaveTestResult godoc
// @Summary 提交测试成绩
// @Description 保存一次章节测试成绩，重复作答追加新记录
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SaveTestResultReq true "测试成绩"
// @Success 201 {object} util.Response{data=model.TestResult} "保存成功"
// @Failure 404 {object} util.Response "未报名该课程"
// @Router /api/test-results [post]
func (c *ProgressController) SaveTestResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SaveTestResultReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.TestResultService.SaveTestResult(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, result)
}

// GetTestResults godoc
// @Summary 课程测试成绩
// @Description 当前学生在某课程下的历次成绩，最新在前
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.TestResult} "成功"
// @Router /api/courses/{id}/test-results [get]
func (c *ProgressController) GetTestResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	results, err := c.TestResultService.GetTestResults(claims.UserID, uint(courseID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
