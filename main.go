package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

var Version string

// setupLogging sends logrus output to the configured log file so stdout
// stays reserved for verdict lines.
func setupLogging(config Config) {
	if config.LogFile != "" {
		logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			fmt.Println("Failed to open log file:", err)
		} else {
			log.SetOutput(logFile)
		}
	}

	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	setupLogging(DefaultConfig())

	cli := &Cli{}
	if err := cli.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
