package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AntonStoeckl/library-lending-ledger/library/accessgate"
	"github.com/AntonStoeckl/library-lending-ledger/library/core"
	"github.com/AntonStoeckl/library-lending-ledger/library/shell"
)

type router struct {
	ledger   Ledger
	accounts Accounts
	logger   shell.Logger
}

// NewRouter wires all routes into a gin engine.
func NewRouter(deps Dependencies) *gin.Engine {
	r := &router{
		ledger:   deps.Ledger,
		accounts: deps.Accounts,
		logger:   deps.Logger,
	}

	if r.logger == nil {
		r.logger = discardLogger{}
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), r.requestLogger(), cors())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	library := engine.Group("/library")

	auth := library.Group("/auth")
	auth.POST("/register", r.register)
	auth.POST("/verify", r.verifyEmail)
	auth.POST("/verify-email", r.verifyEmail)
	auth.POST("/login", r.login)

	requireAuth := deps.Gate.RequireAuth()
	requireAdmin := accessgate.RequireRole(core.RoleAdmin)

	books := library.Group("/books")
	books.GET("/public", r.listPublicBooks)
	books.GET("/public/:id", r.getPublicBook)

	books.GET("", requireAuth, r.listBooks)
	books.GET("/my/borrowed", requireAuth, r.myBorrowedBooks)
	books.GET("/:id", requireAuth, r.getBook)
	books.GET("/:id/borrowers", requireAuth, requireAdmin, r.bookBorrowers)

	books.POST("", requireAuth, requireAdmin, r.addBook)
	books.PUT("/:id", requireAuth, requireAdmin, r.reviseBook)
	books.DELETE("/:id", requireAuth, requireAdmin, r.removeBook)

	books.POST("/:id/borrow", requireAuth, r.borrow)
	books.POST("/:id/return-request", requireAuth, r.requestReturn)
	books.POST("/:id/return-confirm", requireAuth, requireAdmin, r.confirmReturn)
	books.POST("/:id/return", requireAuth, r.compatibilityReturn)

	if deps.Events != nil {
		library.GET("/ws", requireAuth, gin.WrapF(deps.Events))
	}

	return engine
}

func (r *router) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		r.logger.Debug("request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
