package routes

import (
	"hobbynet/api/handlers"
	"hobbynet/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func PublicApi(router *gin.Engine) *gin.RouterGroup {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1/")
	{
		api.POST("auth/register", handlers.Register)
		api.POST("auth/login", handlers.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.SessionAuthMiddleware())
	{
		authed.POST("auth/logout", handlers.Logout)

		authed.GET("profile/me", handlers.Me)
		authed.PUT("profile", handlers.UpdateProfile)
		authed.PATCH("profile", handlers.UpdateProfile)

		authed.GET("hobbies", handlers.ListHobbies)
		authed.POST("hobbies/add", handlers.AddHobby)
		authed.POST("hobbies/remove", handlers.RemoveHobby)

		authed.GET("users/search", handlers.UserSearch)

		authed.POST("friends/request", handlers.SendFriendRequest)
		authed.POST("friends/requests/:id/accept", handlers.AcceptFriendRequest)
		authed.POST("friends/requests/:id/reject", handlers.RejectFriendRequest)
		authed.POST("friends/unfollow", handlers.Unfollow)
		authed.GET("friends", handlers.GetFriends)
		authed.GET("friends/requests", handlers.GetPendingRequests)

		authed.GET("ws", handlers.WSNotifyHandler)
	}
	return api
}
