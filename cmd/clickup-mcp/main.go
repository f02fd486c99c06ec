// Package main is the entry point for the ClickUp MCP server. The protocol
// runs over stdin/stdout, so all logging goes to stderr.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"clickup/internal/config"
	"clickup/internal/mcp"
)

func main() {
	config.LoadDotenv()

	configDir := flag.String("config", "", "override config directory")
	debug := flag.Bool("debug", false, "print debug logs to stderr")
	flag.Parse()

	logrus.SetOutput(os.Stderr)
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}

	cfg, err := config.New(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	srv := mcp.New(cfg, nil)
	logrus.Debug("starting MCP server on stdio")
	if err := srv.ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
