package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes registers the v1 API.
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// Form option lists
	v1.GET("/catalog", h.Catalog.GetCatalog)

	// Session lifecycle
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", h.Session.CreateSession)
		sessions.GET("/:sid", h.Session.GetSession)
		sessions.DELETE("/:sid", h.Session.DeleteSession)

		// Uploaded prompt context
		sessions.POST("/:sid/context", h.Session.UploadContext)
		sessions.DELETE("/:sid/context", h.Session.ClearContext)

		// Per-task generation state machine
		tasks := sessions.Group("/:sid/tasks/:task")
		{
			tasks.GET("", h.Teaching.GetSlot)
			tasks.POST("/generate", h.Teaching.Generate)
			tasks.POST("/edit", h.Teaching.BeginEdit)
			tasks.PUT("/draft", h.Teaching.UpdateDraft)
			tasks.POST("/save", h.Teaching.SaveEdit)
			tasks.POST("/cancel", h.Teaching.CancelEdit)
			tasks.POST("/reset", h.Teaching.Reset)
			tasks.GET("/download", h.Teaching.Download)
		}

		// Streaming chat
		sessions.GET("/:sid/chat", h.Chat.History)
		sessions.POST("/:sid/chat", h.Chat.Send)
	}
}
