package main

import (
	"caseclub/config"
	"caseclub/di"
	"caseclub/shared/logger"
)

// @title Case Club API
// @version 1.0
// @description Peer case-practice coordination service for a consulting club.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
