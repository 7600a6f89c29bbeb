// Command onnxcheck validates ONNX model files against the structural
// and runtime expectations of a YoloDotNet-style detection consumer.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flysky19/onnxcheck/check"
	"github.com/flysky19/onnxcheck/internal/config"
)

const version = "v0.2.0"

func main() {
	os.Exit(run())
}

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1 // at least one model failed validation
	exitUsage   = 2 // configuration or invocation error
)

func run() int {
	configPath := flag.String("config", "",
		"Path to a YAML config file (models dir, model list, profile).")
	modelsDir := flag.String("models-dir", "",
		"Directory holding the model files; overrides the config.")
	ortLib := flag.String("ort-lib", "",
		"Path to the onnxruntime shared library; overrides the config.")
	jsonLogs := flag.Bool("json-logs", false,
		"Emit logs as JSON instead of text.")
	showVersion := flag.Bool("version", false,
		"Print the version and exit.")
	flag.Parse()

	setupLogging(*jsonLogs)

	if *showVersion {
		fmt.Printf("onnxcheck %s\n", version)
		return exitOK
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			slog.Error("Failed to load config", "path", *configPath, "error", err)
			return exitUsage
		}
	}
	if *modelsDir != "" {
		cfg.ModelsDir = *modelsDir
	}
	if *ortLib != "" {
		cfg.ORTLibrary = *ortLib
	}

	paths, err := modelPaths(cfg, flag.Args())
	if err != nil {
		slog.Error("Cannot resolve model paths", "error", err)
		return exitUsage
	}

	opts := check.Options{Profile: cfg.Profile}
	if err := check.InitRuntime(cfg.ORTLibrary); err != nil {
		slog.Warn("ONNX Runtime unavailable; session checks will be skipped", "error", err)
	} else {
		opts.Probe = check.RuntimeProbe
		defer check.ShutdownRuntime()
	}

	fmt.Println("=== ONNX Model Quick Check ===")
	summary := check.Batch(paths, opts)
	fmt.Print(summary.Render())

	if !summary.AllValid() {
		return exitInvalid
	}
	return exitOK
}

// modelPaths resolves which files to check: explicit CLI arguments win,
// otherwise the configured list inside the models directory.
func modelPaths(cfg config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if _, err := os.Stat(cfg.ModelsDir); err != nil {
		return nil, fmt.Errorf("models directory %s does not exist", cfg.ModelsDir)
	}

	paths := make([]string, len(cfg.Models))
	for i, name := range cfg.Models {
		paths[i] = filepath.Join(cfg.ModelsDir, name)
	}
	return paths, nil
}

func setupLogging(jsonLogs bool) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if jsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
