// Package main is the entry point for the leadengrave API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/leadengrave/pkg/api"
	"github.com/james-see/leadengrave/pkg/config"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	configPath := flag.String("config", "", "YAML engraving config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting leadengrave API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
