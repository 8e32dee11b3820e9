package main

import (
	"os"

	"pairtime-api/core/logger"
	"pairtime-api/core/server"
)

// @title PairTime API
// @version 1.0
// @description Shared availability matching and scheduling for paired users

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
		os.Exit(1)
	}
}
