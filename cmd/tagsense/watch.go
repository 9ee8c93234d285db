package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tagsense/internal/watch"
)

// watchCmd creates the watch command
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <directory>",
		Short: "Auto-tag files as they appear in a directory",
		Long:  `Watch a directory and send newly created or modified files to the tagging service automatically.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := newEngine()
			ctx := context.Background()

			if !ensureConnected(ctx, engine) {
				return nil
			}

			watcher, err := watch.New(engine, time.Duration(cfg.Watch.SettleMillis)*time.Millisecond)
			if err != nil {
				return err
			}
			if err := watcher.AddDirectory(args[0]); err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}

			fmt.Printf("watching %s (ctrl+c to stop)\n", args[0])

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			watcher.Stop()
			fmt.Println("\nstopped")
			return nil
		},
	}
}
