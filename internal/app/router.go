package app

import (
	"course_platform_backend/docs"
	"course_platform_backend/internal/config"
	"course_platform_backend/internal/middleware"
	"course_platform_backend/internal/model"

	"course_platform_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 学生授权路由
	a.registerStudentRoutes(router, c, repos, cfg)

	// 3. 管理员路由
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/google", c.auth.GoogleLogin)
		public.POST("/auth/admin/login", c.auth.AdminLogin)

		// 课程目录对游客开放，登录管理员可看完整内容
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(a.Config), c.course.GetCourse)
	}
}

func (a *App) registerStudentRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)

		// 报名
		authGroup.POST("/courses/:id/enroll", c.enrollment.Enroll)
		authGroup.GET("/my/courses", c.enrollment.ListMyCourses)

		// 学习进度
		authGroup.POST("/courses/:id/progress", c.progress.UpdateChapterProgress)
		authGroup.GET("/courses/:id/progress", c.progress.GetCourseProgress)
		authGroup.POST("/courses/:id/progress/reset", c.progress.ResetCourseProgress)

		// 测试成绩
		authGroup.POST("/test-results", c.progress.SaveTestResult)
		authGroup.GET("/courses/:id/test-results", c.progress.GetTestResults)

		// 学习分析
		authGroup.GET("/analytics", c.analytics.GetAnalytics)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		// 课程管理
		admin.POST("/courses", c.course.CreateCourse)
		admin.PUT("/courses/:id", c.course.UpdateCourse)
		admin.DELETE("/courses/:id", c.course.DeleteCourse)
		admin.POST("/courses/:id/payments/:userId/confirm", c.enrollment.ConfirmPayment)

		// 文件上传
		admin.POST("/upload/thumbnail", c.course.UploadThumbnail)
		admin.POST("/upload/pdf", c.course.UploadChapterPDF)

		// 用户管理
		admin.GET("/users", c.user.ListUsers)
		admin.GET("/users/:id", c.user.GetUser)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)
		admin.DELETE("/users/:id", c.user.DeleteUser)
		admin.POST("/admins", c.auth.RegisterAdmin)
	}
}
