package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the effective replay configuration",
	Long: `Info prints the settings a replay would run with: built-in
defaults overridden by gencyl.yaml where present.`,
	Args: cobra.NoArgs,
	Run:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Printf("config file: %s\n", f)
	} else {
		fmt.Println("config file: (defaults)")
	}

	fmt.Println("\nViewport:")
	fmt.Printf("  width:  %d\n", viper.GetInt("viewport.width"))
	fmt.Printf("  height: %d\n", viper.GetInt("viewport.height"))
	fmt.Printf("  fovy:   %g\n", viper.GetFloat64("viewport.fovy"))
	fmt.Printf("  near:   %g\n", viper.GetFloat64("viewport.near"))
	fmt.Printf("  far:    %g\n", viper.GetFloat64("viewport.far"))

	fmt.Println("\nSession:")
	fmt.Printf("  spine-mode: %s\n", viper.GetString("spine-mode"))
	fmt.Printf("  policy:     %s\n", viper.GetString("policy"))
	fmt.Printf("  constraint: %s\n", viper.GetString("constraint"))
	fmt.Printf("  segments:   %d\n", viper.GetInt("segments"))

	if ref := viper.GetString("reference"); ref != "" {
		fmt.Printf("\nReference image: %s\n", ref)
	}
}
