package main

import (
	"log"

	"projgen/cmd"
	"projgen/pkg/logging"
	"projgen/pkg/version"

	"go.uber.org/zap"
)

func main() {
	logger, err := logging.Setup(false, version.AppName, version.Version)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := cmd.Execute(logger); err != nil {
		logger.Fatal("projgen execution failed", zap.Error(err))
	}

	if err := logging.Sync(logger); err != nil {
		log.Printf("Logger sync failed: %v", err)
	}
}
