package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/ornament"
	"github.com/spf13/cobra"
)

var scriptCmd = &cobra.Command{
	Use:   "script <file.json>",
	Short: "Run a JSON test script headless",
	Long: `Drives the scene with a JSON test script at a fixed tick rate without a
window and reports failed expectations. Exits non-zero on any failure.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScript(cmd, args[0]); err != nil {
			fmt.Printf("Script failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Script passed")
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().Int("tps", 60, "Ticks per simulated second")
	scriptCmd.Flags().Int("max-ticks", 60*60*10, "Abort after this many ticks")
}

func runScript(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	runner, err := ornament.LoadTestScript(data)
	if err != nil {
		return err
	}
	scene, log, err := newScene(cmd)
	if err != nil {
		return err
	}
	tps, _ := cmd.Flags().GetInt("tps")
	if tps <= 0 {
		tps = 60
	}
	maxTicks, _ := cmd.Flags().GetInt("max-ticks")

	scene.SetTestRunner(runner)
	dt := 1.0 / float64(tps)
	for i := 0; i < maxTicks && !runner.Done(); i++ {
		scene.Update(dt)
		// No frame is rendered headless; screenshot steps are only logged.
		for _, label := range scene.TakeScreenshots() {
			log.Info("screenshot requested", "label", label, "tick", scene.Tick())
		}
	}
	if !runner.Done() {
		return fmt.Errorf("script did not finish within %d ticks", maxTicks)
	}

	st := scene.Status()
	log.Info("script finished",
		"ticks", st.Tick,
		"phase", st.Phase.String(),
		"progress", st.Progress,
	)
	if failures := runner.Failures(); len(failures) > 0 {
		for _, f := range failures {
			fmt.Println("  " + f)
		}
		return fmt.Errorf("%d expectation(s) failed", len(failures))
	}
	return nil
}
