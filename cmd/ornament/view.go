package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phanxgames/ornament"
	"github.com/phanxgames/ornament/internal/prefs"
	"github.com/phanxgames/ornament/internal/remote"
	"github.com/phanxgames/ornament/internal/telemetry"
	"github.com/phanxgames/ornament/internal/viewer"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the scene in a window",
	Long: `Opens the scene in a window. Space toggles, O/F/N inject gestures, C turns
cursor hand tracking on, P takes a screenshot and image files can be dropped
onto the window to add photos. With --listen the remote control API and
Prometheus metrics are served on the given address.`,
	Run: func(cmd *cobra.Command, args []string) {
		scene, log, err := newScene(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		opts := viewer.DefaultOptions()
		opts.Width, _ = cmd.Flags().GetInt("width")
		opts.Height, _ = cmd.Flags().GetInt("height")
		opts.ScreenshotDir, _ = cmd.Flags().GetString("screenshots")
		opts.PhotoDir, _ = cmd.Flags().GetString("photos")
		opts.Log = log
		if noPrefs, _ := cmd.Flags().GetBool("no-prefs"); !noPrefs {
			opts.Prefs = prefs.Open(log)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		listen, _ := cmd.Flags().GetString("listen")
		served := make(chan error, 1)
		if listen != "" {
			mb := ornament.NewMailbox()
			metrics := telemetry.New()
			scene.SetMailbox(mb)
			scene.SetObserver(metrics)
			handler := remote.NewHandler(mb, log, remote.WithMetrics(metrics.Handler()))
			go func() { served <- remote.Serve(ctx, listen, handler, log) }()
		} else {
			close(served)
		}

		// The window owns the main goroutine until it is closed.
		if err := viewer.Run(scene, opts); err != nil {
			fmt.Printf("Viewer error: %v\n", err)
			os.Exit(1)
		}
		stop()
		if err := <-served; err != nil {
			fmt.Printf("Remote error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().Int("width", 1280, "Window width")
	viewCmd.Flags().Int("height", 720, "Window height")
	viewCmd.Flags().String("screenshots", "screenshots", "Directory for screenshots")
	viewCmd.Flags().String("photos", "photos", "Directory receiving copies of dropped photos")
	viewCmd.Flags().StringP("listen", "l", "", "Serve the remote control API on this address (e.g. :8080)")
	viewCmd.Flags().Bool("no-prefs", false, "Do not restore or save preferences")

	rootCmd.Run = viewCmd.Run
}
