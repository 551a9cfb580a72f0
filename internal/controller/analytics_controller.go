package controller

import (
	"course_platform_backend/internal/service"
	"course_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// GetAnalytics godoc
// @Summary 学习分析
// @Description 学生学习总览和逐课程明细。timeRange 取 all/week/month，
// @Description 只影响测试口径的统计，报名数和总时长始终为全量。
// @Tags 学习分析
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   timeRange query string false "时间范围" Enums(all, week, month) default(all)
// @Success 200 {object} util.Response{data=model.AnalyticsResponse} "成功"
// @Router /api/analytics [get]
func (c *AnalyticsController) GetAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	timeRange := ctx.DefaultQuery("timeRange", "all")
	analytics, err := c.AnalyticsService.GetAnalytics(claims.UserID, timeRange)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}
