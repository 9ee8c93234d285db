package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagsense/internal/backend"
	"tagsense/internal/config"
	"tagsense/internal/log"
	"tagsense/internal/workflow"
)

var (
	version = "dev"

	cfgFile string
	debug   bool
	cfg     *config.Config
)

// Entry point for the application
func main() {
	rootCmd := &cobra.Command{
		Use:     "tagsense",
		Short:   "AI-assisted file tagging",
		Long:    `Tagsense points an AI tagging service at files or folders and lets you review and edit the suggested tags.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDebug(debug)

			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				fmt.Printf("warning: %v\n", err)
				fmt.Println("using default settings")
				cfg = config.New()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/tagsense/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(tagCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(tuiCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newEngine builds a workflow engine wired to the HTTP backend
func newEngine() *workflow.Engine {
	return workflow.New(cfg, backend.NewClient(cfg))
}
