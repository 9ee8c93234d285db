package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"tagsense/internal/workflow"
	"tagsense/pkg/types"
)

// tagCmd creates the tag command with its file and folder subcommands
func tagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Generate tags for a file or a whole folder",
		Long:  `Send a file or every supported file in a folder to the tagging service and print the suggested tags.`,
	}

	cmd.AddCommand(tagFileCmd())
	cmd.AddCommand(tagFolderCmd())

	return cmd
}

func tagFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file [path]",
		Short: "Tag a single file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := newEngine()
			ctx := context.Background()

			path, ok, err := resolvePath(args, func(p workflow.Picker) (string, bool, error) {
				return p.PickFile(cfg.Classify.TextExtensions)
			})
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("nothing selected")
				return nil
			}

			if !ensureConnected(ctx, engine) {
				return nil
			}

			engine.SelectFile(path)
			r, err := engine.ProcessFile(ctx)
			if err != nil {
				return err
			}

			printResult(r)
			return nil
		},
	}
}

func tagFolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "folder [path]",
		Short: "Tag every supported file in a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := newEngine()
			ctx := context.Background()

			path, ok, err := resolvePath(args, func(p workflow.Picker) (string, bool, error) {
				return p.PickFolder()
			})
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("nothing selected")
				return nil
			}

			if !ensureConnected(ctx, engine) {
				return nil
			}

			var bar *progressbar.ProgressBar
			engine.OnProgress(func(index, total int, name string) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetDescription("tagging"),
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionShowCount(),
					)
				}
				bar.Describe(fmt.Sprintf("tagging %s", name))
			})
			engine.OnResult(func(r types.ProcessingResult) {
				if bar != nil {
					bar.Add(1)
					fmt.Fprintln(os.Stderr)
				}
				printResult(r)
			})

			engine.SelectFolder(path)
			if _, _, err := engine.ProcessFolder(ctx); err != nil {
				return err
			}

			fmt.Println(engine.StatusMessage())
			return nil
		},
	}
}

// resolvePath takes the path from args when given, otherwise falls back
// to the interactive picker
func resolvePath(args []string, pick func(workflow.Picker) (string, bool, error)) (string, bool, error) {
	if len(args) > 0 {
		return args[0], true, nil
	}
	var picker workflow.Picker = &terminalPicker{in: bufio.NewReader(os.Stdin)}
	return pick(picker)
}

// ensureConnected probes the service and reports whether dispatch is
// allowed. Degraded means the backend answered but the model service is
// down, which also blocks dispatch.
func ensureConnected(ctx context.Context, engine *workflow.Engine) bool {
	status := engine.Monitor().Check(ctx)
	if status.Ready() {
		return true
	}
	fmt.Printf("cannot dispatch: %s (%s)\n", status.State, status.Reason)
	return false
}

func printResult(r types.ProcessingResult) {
	if !r.Success {
		fmt.Printf("✗ %s: %s\n", r.Name(), r.ErrorDetail)
		return
	}
	fmt.Printf("✓ %s [%s]: %s\n", r.Name(), r.ModelUsed, strings.Join(r.Tags, ", "))
}

// terminalPicker implements workflow.Picker by prompting on stdin
type terminalPicker struct {
	in *bufio.Reader
}

func (p *terminalPicker) PickFile(filters []string) (string, bool, error) {
	return p.prompt("file path: ")
}

func (p *terminalPicker) PickFolder() (string, bool, error) {
	return p.prompt("folder path: ")
}

func (p *terminalPicker) prompt(label string) (string, bool, error) {
	fmt.Print(label)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return "", false, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false, nil
	}
	return line, true, nil
}
