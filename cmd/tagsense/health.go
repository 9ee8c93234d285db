package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tagsense/internal/backend"
	"tagsense/pkg/types"
)

// healthCmd creates the health command
func healthCmd() *cobra.Command {
	var showModels bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check connectivity to the tagging service",
		Long:  `Probe the tagging backend and the model service behind it, reporting the reconciled status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := newEngine()
			ctx := context.Background()

			status := engine.Monitor().Check(ctx)
			switch status.State {
			case types.StatusConnected:
				fmt.Println("✓ connected")
			case types.StatusDegraded:
				fmt.Printf("! degraded: %s\n", status.Reason)
			default:
				fmt.Printf("✗ disconnected: %s\n", status.Reason)
			}

			if showModels && status.State != types.StatusDisconnected {
				client := backend.NewClient(cfg)
				inv, err := client.AvailableModels(ctx)
				if err != nil {
					fmt.Printf("could not list models: %v\n", err)
					return nil
				}
				fmt.Printf("available models: %s\n", strings.Join(inv.AvailableModels, ", "))
				fmt.Printf("text route ready: %v, vision route ready: %v\n",
					inv.TextAvailable, inv.VisionAvailable)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&showModels, "models", "m", false, "also list the models the backend has available")

	return cmd
}
