package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/you/booklib/internal/http/handlers"
	"github.com/you/booklib/internal/http/middleware"
	"github.com/you/booklib/internal/logging"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth     *handlers.AuthHandlers
	Library  *handlers.LibraryHandlers
	Policies *handlers.PolicyHandlers
}

func BuildRouter(h Handlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/verify-email", h.Auth.VerifyEmail)
	auth.POST("/resend-otp", h.Auth.ResendOTP)
	auth.POST("/signin", h.Auth.SignIn)

	token := r.Group("/token")
	token.POST("/refresh", h.Auth.Refresh)
	token.POST("/verify", h.Auth.VerifyToken)

	v := r.Group("/", jwtmw.WithJWT(), cb.Enforce())
	v.POST("/auth/signout", h.Auth.SignOut)
	v.GET("/accounts/me", h.Auth.Me)
	v.PATCH("/accounts/me", h.Auth.UpdateMe)

	v.GET("/category", h.Library.ListCategories)
	v.POST("/category", h.Library.CreateCategory)
	v.GET("/category/:id", h.Library.GetCategory)
	v.PUT("/category/:id", h.Library.UpdateCategory)
	v.DELETE("/category/:id", h.Library.DeleteCategory)

	v.GET("/book", h.Library.ListBooks)
	v.POST("/book", h.Library.CreateBook)
	v.GET("/book/:id", h.Library.GetBook)
	v.PUT("/book/:id", h.Library.UpdateBook)
	v.PATCH("/book/:id", h.Library.UpdateBook)
	v.DELETE("/book/:id", h.Library.DeleteBook)
	v.POST("/book/:id/cover", h.Library.UploadCover)

	adm := r.Group("/admin", jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/policies", h.Policies.List)
	adm.POST("/policies", h.Policies.Add)
	adm.DELETE("/policies", h.Policies.Remove)

	return r
}
