package router

import (
	"net/http"

	"github.com/gallerycms/internal/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	// 未注册的方法返回 405 而不是 404
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": gin.H{"message": "method not allowed"}})
	})

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("gallery_session", store))

	// 浏览器前端跨域访问
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		// 公开的只读接口
		apiGroup.GET("/items", api.ListItems)
		apiGroup.GET("/items/:id", api.GetItem)
		apiGroup.GET("/categories", api.ListCategories)

		auth := apiGroup.Group("/auth")
		{
			auth.POST("/login", api.RequestLogin)
			auth.GET("/verify", api.VerifyLogin)
			auth.POST("/password", api.PasswordLogin)
			auth.POST("/logout", api.Logout)
			auth.GET("/me", api.Me)
		}

		// 需要管理员角色的写接口
		admin := apiGroup.Group("")
		admin.Use(handler.AuthRequired())
		{
			admin.POST("/items", api.CreateItem)
			admin.PUT("/items/:id", api.UpdateItem)
			admin.DELETE("/items/:id", api.DeleteItem)

			admin.POST("/categories", api.CreateCategory)
			admin.PUT("/categories/:id", api.UpdateCategory)
			admin.DELETE("/categories/:id", api.DeleteCategory)
		}
	}

	return r
}
