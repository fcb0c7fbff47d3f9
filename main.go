package main

import (
	"deadline-tracker/core/logger"
	"deadline-tracker/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
