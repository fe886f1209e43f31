package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"qcircuit/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Edit and inspect a program interactively",
	Long: `Open the inspector: a program editor next to the circuit diagram and a
histogram of shot results. Without a file the editor starts empty and ^S
writes circuit.qasm. With --watch the program is reloaded whenever the file
changes on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// The terminal belongs to the inspector; logs go to a file or nowhere.
		if path := GetString(cmd, "log-file"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
			log.SetOutput(f)
		} else {
			log.SetOutput(io.Discard)
		}

		opts := tui.Options{
			Run:       runOptions(cmd, cfg),
			Dialect:   cfg.OutputDialect(),
			Precision: cfg.Precision,
		}
		if len(args) == 1 {
			opts.Path = args[0]
			if opts.Source, err = readProgram(cmd, args[0]); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if GetFlag(cmd, "watch") {
			if opts.Path == "" || opts.Path == "-" {
				return fmt.Errorf("--watch needs a file argument")
			}
			w, err := tui.NewWatcher(ctx, opts.Path)
			if err != nil {
				return err
			}
			defer w.Close()
			opts.Changes = w.Changes()
		}

		_, err = tea.NewProgram(tui.New(opts), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	viewCmd.Flags().IntP("shots", "n", 1, "number of executions per run")
	viewCmd.Flags().Uint64("seed", 0, "seed for measurement sampling (0 is random)")
	viewCmd.Flags().Int("max-loop", 0, "cap on iterations of each while loop (0 is unlimited)")
	viewCmd.Flags().BoolP("watch", "w", false, "reload the program when the file changes")
	viewCmd.Flags().String("log-file", "", "write logs to this file while the inspector runs")
	rootCmd.AddCommand(viewCmd)
}
