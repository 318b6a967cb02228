package routes

import (
	"github.com/14kear/online_voting/polls-service/internal/handlers"
	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(rg *gin.RouterGroup, handler *handlers.PollsHandler) {
	{
		rg.GET("", handler.ListPolls) // ?status=active|closed
		rg.GET("/:id", handler.GetPoll)
		rg.GET("/:id/results", handler.Results)
	}
}

func RegisterPrivateRoutes(rg *gin.RouterGroup, handler *handlers.PollsHandler) {
	{
		rg.POST("", handler.CreatePoll)
		rg.PUT("/:id", handler.UpdatePoll)
		rg.DELETE("/:id", handler.DeletePoll)

		rg.POST("/:id/vote", handler.Vote)
	}
}

func RegisterAuthRoutes(rg *gin.RouterGroup, handler *handlers.AuthHandler) {
	{
		rg.POST("/register", handler.Register)
		rg.POST("/login", handler.Login)
	}
}
