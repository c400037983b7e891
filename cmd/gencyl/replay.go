package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ardael/gencyl/pkg/engine"
)

var (
	replayJSON    bool
	replayBare    bool
	replayRefPath string
)

var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a pointer-event script and summarize the model",
	Long: `Replay evaluates a gencyl script file against a fresh modelling
session. The script drives the session with (left-click x y),
(right-click x y) and (mouse-move x y) forms and may export the model
with (save-stl "out.stl").

Viewport and session configuration come from gencyl.yaml (or its
defaults) and are prepended to the script unless --bare is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayJSON, "json", false, "print the summary as JSON")
	replayCmd.Flags().BoolVar(&replayBare, "bare", false, "skip the config-derived prelude")
	replayCmd.Flags().StringVar(&replayRefPath, "reference", "", "reference image for chord snapping")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	source := string(data)
	if !replayBare {
		source = configPrelude() + source
	}

	eng := engine.NewEngine()
	summary, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", args[0], e.Error())
		}
		return fmt.Errorf("%d error(s) in %s", len(evalErrs), args[0])
	}

	if replayJSON {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printSummary(summary)
	return nil
}

// configPrelude renders the viper-backed settings as script forms so a
// bare event script picks up gencyl.yaml without embedding it.
func configPrelude() string {
	var b strings.Builder
	fmt.Fprintf(&b, "(viewport :width %d :height %d :fovy %g :near %g :far %g)\n",
		viper.GetInt("viewport.width"),
		viper.GetInt("viewport.height"),
		viper.GetFloat64("viewport.fovy"),
		viper.GetFloat64("viewport.near"),
		viper.GetFloat64("viewport.far"))
	fmt.Fprintf(&b, "(config :spine-mode :%s :policy :%s :constraint :%s :segments %d)\n",
		viper.GetString("spine-mode"),
		viper.GetString("policy"),
		viper.GetString("constraint"),
		viper.GetInt("segments"))
	ref := replayRefPath
	if ref == "" {
		ref = viper.GetString("reference")
	}
	if ref != "" {
		fmt.Fprintf(&b, "(load-reference %q)\n", ref)
	}
	return b.String()
}

func printSummary(s *engine.Summary) {
	fmt.Printf("mode: %s\n", s.Mode)
	fmt.Printf("components: %d\n", len(s.Components))
	for _, c := range s.Components {
		fmt.Printf("  component %d: %d section(s)\n", c.ID, c.Sections)
	}
	for _, d := range s.Diagnostics {
		fmt.Printf("diagnostic: %s\n", d)
	}
	for _, p := range s.Saved {
		fmt.Printf("saved: %s\n", p)
	}
}
