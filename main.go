package main

import (
	// Load .env before any command reads the environment.
	_ "github.com/joho/godotenv/autoload"

	"github.com/leonardomso/lessonblocks/cmd"
)

// version is set by GoReleaser at build time via ldflags.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
