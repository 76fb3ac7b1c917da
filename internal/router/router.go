package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tkrcet/attendance-backend/internal/config"
	"github.com/tkrcet/attendance-backend/internal/handler"
	"github.com/tkrcet/attendance-backend/internal/middleware"
	"github.com/tkrcet/attendance-backend/internal/response"
	"github.com/tkrcet/attendance-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Attendance *handler.AttendanceHandler
	Report     *handler.ReportHandler
	Roster     *handler.RosterHandler
	Faculty    *handler.FacultyHandler
	Permission *handler.PermissionHandler
	Notify     *handler.NotifyHandler
	Live       *handler.LiveHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Report payloads compress well; apply brotli globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/faculty/login", handlers.Auth.FacultyLogin)
		auth.POST("/student/login", handlers.Auth.StudentLogin)
	}

	// ─── 2. Roster Reads (Faculty JWT) ─────────────────────────────────
	// The marking UI walks years → departments → sections → students.
	rosterAPI := router.Group("/api/v1/roster")
	rosterAPI.Use(middleware.RequireFacultyJWT(authService))
	{
		rosterAPI.GET("/years", handlers.Roster.ListYears)
		rosterAPI.GET("/years/:year/departments", handlers.Roster.ListDepartments)
		rosterAPI.GET("/years/:year/departments/:department/sections", handlers.Roster.ListSections)
		rosterAPI.GET("/sections/:year/:department/:section/students", handlers.Roster.ListStudents)
		rosterAPI.GET("/sections/:year/:department/:section/timetable", handlers.Roster.GetTimetable)
		rosterAPI.GET("/students/:rollNumber", handlers.Roster.GetStudent)
	}

	// ─── 3. Faculty Group (Faculty JWT) ────────────────────────────────
	facultyAPI := router.Group("/api/v1/faculty")
	facultyAPI.Use(middleware.RequireFacultyJWT(authService))
	{
		facultyAPI.GET("/me", handlers.Faculty.Me)
		facultyAPI.GET("/classes", handlers.Faculty.MyClasses)
		facultyAPI.GET("/classes/today", handlers.Faculty.TodayClasses)

		facultyAPI.POST("/attendance", handlers.Attendance.Mark)
		facultyAPI.GET("/attendance", handlers.Attendance.FetchByScope)
		facultyAPI.GET("/attendance/check", handlers.Attendance.Check)
		facultyAPI.GET("/attendance/subject", handlers.Attendance.FetchBySubject)

		facultyAPI.GET("/reports/subject", handlers.Report.SubjectTable)
		facultyAPI.GET("/reports/overall", handlers.Report.SectionOverall)
		facultyAPI.GET("/reports/day", handlers.Report.DaySummary)
		facultyAPI.GET("/reports/students/:rollNumber", handlers.Report.StudentSummary)

		facultyAPI.GET("/permissions/can-edit", handlers.Permission.CanEdit)
	}

	// ─── 4. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/summary", handlers.Report.MySummary)
	}

	// ─── 5. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/sections/:year/:department/:section/feed", handlers.Live.SectionFeed)
	}

	// ─── 6. Admin Group (Faculty JWT with admin role) ──────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Section and student management
		adminAPI.POST("/sections", handlers.Roster.CreateSection)
		adminAPI.POST("/sections/:year/:department/:section/students", handlers.Roster.AddStudents)
		adminAPI.DELETE("/sections/:year/:department/:section/students", handlers.Roster.ClearSection)
		adminAPI.PUT("/sections/:year/:department/:section/timetable", handlers.Roster.UpsertTimetable)
		adminAPI.DELETE("/students/:rollNumber", handlers.Roster.RemoveStudent)
		adminAPI.POST("/students/:rollNumber/reset-session", handlers.Auth.ResetStudentSession)

		// Faculty management
		adminAPI.GET("/faculty", handlers.Faculty.List)
		adminAPI.POST("/faculty", handlers.Faculty.Create)
		adminAPI.GET("/faculty/:facultyId", handlers.Faculty.Get)
		adminAPI.PUT("/faculty/:facultyId", handlers.Faculty.Update)
		adminAPI.DELETE("/faculty/:facultyId", handlers.Faculty.Delete)

		// Edit-permission grants
		adminAPI.POST("/permissions", handlers.Permission.Grant)
		adminAPI.GET("/permissions/:facultyId", handlers.Permission.List)
		adminAPI.DELETE("/permissions/:id", handlers.Permission.Revoke)

		// Cross-section reads and notifications
		adminAPI.GET("/attendance/day/:date", handlers.Attendance.FetchByDate)
		adminAPI.GET("/reports/absentees/:date", handlers.Report.Absentees)
		adminAPI.POST("/notifications/absentees", handlers.Notify.TriggerAlerts)
		adminAPI.GET("/notifications/absentees/:date", handlers.Notify.SentLog)
	}

	return router
}
