package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/ornament"
	"github.com/phanxgames/ornament/internal/config"
	"github.com/phanxgames/ornament/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ornament",
	Short: "Ornament is a gesture driven particle tree",
	Long: `Ornament renders a tree of particles that blooms into a nebula ring and
collapses back, driven by hand gestures, keys or a remote control API.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML scene configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Override the configured random seed")
	rootCmd.PersistentFlags().Bool("debug", false, "Log per-tick timing")
}

// setup reads the persistent flags and builds the logger and scene config.
func setup(cmd *cobra.Command) (ornament.SceneConfig, *slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return ornament.SceneConfig{}, nil, err
	}
	log := logging.New(level)

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return ornament.SceneConfig{}, nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	return cfg, log, nil
}

// newScene builds the scene and attaches the logger.
func newScene(cmd *cobra.Command) (*ornament.Scene, *slog.Logger, error) {
	cfg, log, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	scene, err := ornament.NewScene(cfg, nil)
	if err != nil {
		return nil, nil, err
	}
	scene.SetLogger(log)
	debug, _ := cmd.Flags().GetBool("debug")
	scene.SetDebugMode(debug)
	log.Debug("scene ready", "seed", cfg.Seed, "groups", len(cfg.Groups))
	return scene, log, nil
}
