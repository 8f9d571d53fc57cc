package main

import (
	"hms/config"
	"hms/di"
	"hms/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	log.Info().Str("app", cfg.App.Name).Str("env", cfg.Server.Env).Msg("Booting room availability service.")

	server := di.InitializeService()
	server.Serve()
}
