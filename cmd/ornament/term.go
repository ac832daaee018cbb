package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/ornament/internal/termview"
	"github.com/spf13/cobra"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Render the scene in the terminal",
	Long:  `Renders the scene as glyphs in the terminal. Space toggles, O/F/N inject gestures, H hides the status line and Q quits.`,
	Run: func(cmd *cobra.Command, args []string) {
		scene, log, err := newScene(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fps, _ := cmd.Flags().GetInt("fps")

		screen, err := tcell.NewScreen()
		if err != nil {
			fmt.Printf("Error creating screen: %v\n", err)
			os.Exit(1)
		}
		if err := screen.Init(); err != nil {
			fmt.Printf("Error initializing screen: %v\n", err)
			os.Exit(1)
		}
		screen.EnableMouse()
		defer screen.Fini()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		view := termview.New(screen, scene, log)
		if err := view.Run(ctx, fps); err != nil {
			screen.Fini()
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(termCmd)
	termCmd.Flags().Int("fps", 30, "Frames per second")
}
