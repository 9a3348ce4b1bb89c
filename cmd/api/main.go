package main

import (
	"os"

	"github.com/aboadu/classtrack/internal/pkg/logger"
	"github.com/aboadu/classtrack/internal/server"
)

// @title ClassTrack API
// @version 1.0
// @description Attendance session and check-in tracking for students and lecturers

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token issued by the institution's identity service

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
