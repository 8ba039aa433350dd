// Package server exposes the dashboard view state over a JSON API.
package server

import (
	"log"
	"net/http"

	"StockDash/internal/dashboard"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server holds the handlers' dependencies.
type Server struct {
	Service *dashboard.Service
}

// NewRouter builds the gin engine with CORS and every API route.
func NewRouter(svc *dashboard.Service, allowOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowOrigins = allowOrigins
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	config.ExposeHeaders = []string{"Content-Length"}
	router.Use(cors.New(config))

	s := &Server{Service: svc}
	s.RegisterRoutes(router)
	return router
}

// RegisterRoutes mounts the API under /api.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/health", s.Health)
		api.GET("/state", s.GetState)
		api.GET("/chart", s.GetChart)
		api.GET("/summary", s.GetSummary)
		api.GET("/symbols", s.GetSymbols)
		api.POST("/symbols", s.AddSymbol)
		api.DELETE("/symbols/:symbol", s.RemoveSymbol)
		api.POST("/refresh", s.Refresh)
		api.GET("/fetches", s.GetFetches)
	}
}

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
