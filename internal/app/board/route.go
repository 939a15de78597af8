package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/boards", handler.CreateBoard)
	rg.GET("/boards", handler.GetBoards)
	rg.GET("/boards/search", handler.SearchBoards)
	rg.GET("/boards/recent", handler.GetRecentBoards)
	rg.GET("/boards/popular", handler.GetPopularBoards)
	rg.GET("/boards/:id", handler.GetBoardByID)
	rg.PUT("/boards/:id", handler.UpdateBoard)
	rg.DELETE("/boards/:id", handler.DeleteBoard)
}
