package web

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/", handler.Home)
	rg.GET("/boards", handler.List)
	rg.GET("/boards/new", handler.NewForm)
	rg.POST("/boards/new", handler.Create)
	rg.GET("/boards/:id", handler.Detail)
	rg.GET("/boards/:id/edit", handler.EditForm)
	rg.POST("/boards/:id/edit", handler.Update)
	rg.POST("/boards/:id/delete", handler.Delete)
}
