package routes

import (
	"todolist/internal/controller"
	"todolist/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Router(tc *controller.TodoController, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Observe(), middleware.CORS(corsOrigins))

	// Health for load balancers and K8s probes
	router.GET("/health", tc.Health)
	router.GET("/ready", tc.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/todos")
	{
		api.GET("", tc.GetTodos)
		api.POST("", tc.CreateTodo)
		api.PUT("/:id", tc.UpdateTodo)
		api.DELETE("/:id", tc.DeleteTodo)
	}

	return router
}
