package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leonardomso/lessonblocks/internal/api"
	"github.com/leonardomso/lessonblocks/internal/render"
)

// DefaultAddr is the listen address when neither flag nor config sets one.
const DefaultAddr = ":8080"

var (
	serveAddr     string
	serveWidth    int
	serveFontSize string
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parser over HTTP",
	Long: `Start an HTTP server that parses and renders section content.

Endpoints:
  GET  /healthz             Liveness check
  POST /parse               Parse content, returns blocks as JSON
  POST /render?as=html      Render content (html, markdown, terminal)

Request bodies are either raw text (Content-Type: text/plain) or JSON:
  {"content": "# Title\n...", "fence_policy": "skip"}

Examples:
  lessonblocks serve
  lessonblocks serve --addr=127.0.0.1:9000 --legacy-fences`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", DefaultAddr, "Address to listen on")
	serveCmd.Flags().IntVar(&serveWidth, "width", render.DefaultOptions().Width,
		"Default wrap width for terminal rendering")
	serveCmd.Flags().StringVar(&serveFontSize, "font-size", "",
		"Default font size for terminal rendering")
	serveCmd.Flags().BoolVar(&legacyFences, "legacy-fences", false,
		"Default to the legacy fence policy")
	serveCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading the .lessonrc config file")
}

func runServe(_ *cobra.Command, _ []string) {
	lc, err := LoadConfig(noConfig)
	exitOnError(err, "Error loading config")

	logger := lc.NewLogger(os.Stderr, verbose)

	renderOpts, err := lc.BuildRenderOptions(serveWidth, serveFontSize)
	exitOnError(err, "Invalid flags")

	h := api.NewHandler(lc.BuildParser(legacyFences), renderOpts)
	router := api.NewRouter(h, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := lc.GetAddr(serveAddr, DefaultAddr)
	logger.Info("listening", "addr", addr)

	err = api.ListenAndServe(ctx, addr, router, logger)
	if err != nil && !errors.Is(err, context.Canceled) {
		exitOnError(err, "Server failed")
	}
}
