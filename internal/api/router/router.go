package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skilltree/backend/config"
	"skilltree/backend/internal/api/handler"
	"skilltree/backend/internal/api/middleware"
	"skilltree/backend/pkg/jwt"
	"skilltree/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 登录与发码接口限流，防止撞库与邮件轰炸
	loginLimit := middleware.RateLimit(rdb, 10, time.Minute)
	otpLimit := middleware.RateLimit(rdb, 5, time.Minute)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证与注册模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/signin", loginLimit, h.Auth.Signin)
			auth.POST("/admin/login", loginLimit, h.Auth.AdminLogin)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/signup", otpLimit, h.Signup.Signup)
			auth.POST("/signup/confirm", h.Signup.ConfirmSignup)
		}

		// 试听课预约模块（公开，无需注册即可预约）
		bookings := v1.Group("/bookings")
		{
			bookings.GET("/timezones", h.Booking.ListTimezones)
			bookings.POST("/available-slots", h.Booking.AvailableSlots)
			bookings.POST("", h.Booking.BookSlot)
			bookings.GET("/:id", h.Booking.GetBooking)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 成绩单：学生本人或管理员（Handler 层校验归属）
			authorized.GET("/assignments/:id/results", h.Assignment.Results)

			// ── 学生端 ──
			student := authorized.Group("/student")
			student.Use(middleware.RoleAuth(jwt.RoleStudent))
			{
				student.GET("/dashboard", h.Student.MyDashboard)
				student.GET("/materials", h.Material.MyMaterials)
				student.GET("/tests", h.Assignment.MyTests)
				student.GET("/assignments/:id/take", h.Assignment.TakeTest)
				student.POST("/assignments/:id/submit", h.Assignment.SubmitTest)

				student.GET("/events", h.Event.ListEvents)
				student.GET("/events/export", h.Event.ExportCalendar)
				student.POST("/events", h.Event.CreateEvent)
				student.GET("/events/:id", h.Event.GetEvent)
				student.PUT("/events/:id", h.Event.UpdateEvent)
				student.DELETE("/events/:id", h.Event.DeleteEvent)
			}

			// ── 管理端 ──
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(jwt.RoleAdmin))
			{
				admin.GET("/bookings", h.Booking.ListBookings)
				admin.POST("/bookings/:id/confirm", h.Booking.ConfirmBooking)

				admin.GET("/students", h.Student.ListStudents)
				admin.GET("/students/:id", h.Student.GetStudent)
				admin.PUT("/students/:id", h.Student.UpdateStudent)
				admin.DELETE("/students/:id", h.Student.DeleteStudent)
				admin.GET("/students/:id/dashboard", h.Student.AdminStudentDashboard)
				admin.POST("/students/:id/materials/:materialId", h.Material.AssignMaterial)

				admin.GET("/materials", h.Material.ListMaterials)
				admin.GET("/materials/topics", h.Material.ListTopics)
				admin.POST("/materials", h.Material.CreateMaterial)
				admin.GET("/materials/:id", h.Material.GetMaterial)
				admin.PUT("/materials/:id", h.Material.UpdateMaterial)
				admin.DELETE("/materials/:id", h.Material.DeleteMaterial)
				admin.DELETE("/material-assignments/:id", h.Material.RemoveAssignment)

				admin.GET("/tests", h.Test.ListTests)
				admin.POST("/tests", h.Test.CreateTest)
				admin.GET("/tests/:id", h.Test.GetTest)
				admin.PUT("/tests/:id", h.Test.EditTest)
				admin.DELETE("/tests/:id", h.Test.DeleteTest)
				admin.GET("/tests/:id/students", h.Test.StudentsForAssignment)
				admin.POST("/tests/:id/assign", h.Assignment.AssignTest)
				admin.GET("/tests/:id/export", h.Export.ExportTestResults)

				admin.DELETE("/assignments/:id", h.Assignment.RevokeAssignment)
				admin.PATCH("/assignments/:id/validity", h.Assignment.ExtendValidity)
			}
		}
	}

	return r
}
