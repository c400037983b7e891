package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gencyl",
	Short: "Sketch-based generalized-cylinder modeller",
	Long: `gencyl reconstructs 3D generalized cylinders from 2D sketch input.
A script of pointer events is replayed against a modelling session: two
clicks fix the major axis of the base ellipse, a third fixes the minor
axis, and further clicks grow the spine. Cross-sections are recovered by
back-projecting each sketched ellipse through the camera, and the swept
surface can be exported as STL.`,
	Version: "1.0.0",
}

func main() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initConfig loads gencyl.yaml from the working directory or $HOME.
// A missing config file is fine; every key has a default.
func initConfig() {
	viper.SetConfigName("gencyl")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}

	viper.SetDefault("viewport.width", 800)
	viper.SetDefault("viewport.height", 600)
	viper.SetDefault("viewport.fovy", 45.0)
	viper.SetDefault("viewport.near", 1.0)
	viper.SetDefault("viewport.far", 1000.0)
	viper.SetDefault("spine-mode", "piecewise-linear")
	viper.SetDefault("policy", "fixed-depth")
	viper.SetDefault("constraint", "none")
	viper.SetDefault("segments", 32)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: config file ignored: %v\n", err)
		}
	}
}
