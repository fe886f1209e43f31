package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"qcircuit/internal/config"
	"qcircuit/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run <file|->",
	Short: "Execute a program and print measurement counts",
	Long: `Execute a program for a number of shots. Every shot starts from |0...0>
with all classical bits cleared. The counts of each shot's measurement outcomes
are printed, followed by the final state's basis probabilities.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		src, err := readProgram(cmd, args[0])
		if err != nil {
			return err
		}
		opts := runOptions(cmd, cfg)
		log.WithFields(log.Fields{"file": args[0], "shots": opts.Shots, "seed": opts.Seed}).Debug("running program")

		res, err := runner.Run(src, opts)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if GetFlag(cmd, "json") {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printResult(out, res, cfg.Precision, GetFlag(cmd, "state"))
		return nil
	},
}

// runOptions merges the settings file with the flags that were set.
func runOptions(cmd *cobra.Command, cfg *config.Config) runner.Options {
	opts := runner.Options{
		Shots: cfg.Shots,
		Seed:  cfg.Seed,
	}
	// A zero cap in the settings file means unlimited.
	loops := cfg.MaxLoopIterations
	if cmd.Flags().Changed("shots") {
		opts.Shots = GetInt(cmd, "shots")
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = GetUint64(cmd, "seed")
	}
	if cmd.Flags().Changed("max-loop") {
		loops = GetInt(cmd, "max-loop")
	}
	if loops <= 0 {
		opts.MaxLoopIterations = -1
	} else {
		opts.MaxLoopIterations = loops
	}
	return opts
}

func printResult(w io.Writer, res *runner.Result, precision int, withState bool) {
	fmt.Fprintf(w, "qubits: %d  shots: %d\n\n", res.Qubits, res.Shots)
	fmt.Fprintln(w, "counts:")
	width := keyWidth(res)
	for _, k := range res.SortedCounts() {
		fmt.Fprintf(w, "  %-*s %d\n", width, k, res.Counts[k])
	}
	fmt.Fprintln(w, "\nprobabilities:")
	for _, k := range res.SortedStates() {
		fmt.Fprintf(w, "  |%s> %s\n", k, strconv.FormatFloat(res.Probabilities[k], 'f', precision, 64))
	}
	if !withState {
		return
	}
	fmt.Fprintln(w, "\nmarginals:")
	for q, p := range res.Marginals() {
		fmt.Fprintf(w, "  q[%d] %s\n", q, strconv.FormatFloat(p, 'f', precision, 64))
	}
	fmt.Fprintln(w, "\nstate:")
	for i, a := range res.State {
		if a == 0 {
			continue
		}
		fmt.Fprintf(w, "  %d: %s %s\n", i,
			strconv.FormatFloat(real(a), 'f', precision, 64),
			strconv.FormatFloat(imag(a), 'f', precision, 64))
	}
}

func keyWidth(res *runner.Result) int {
	w := 0
	for k := range res.Counts {
		w = max(w, len(k))
	}
	return w
}

func init() {
	runCmd.Flags().IntP("shots", "n", 1, "number of executions")
	runCmd.Flags().Uint64("seed", 0, "seed for measurement sampling (0 is random)")
	runCmd.Flags().Int("max-loop", 0, "cap on iterations of each while loop (0 is unlimited)")
	runCmd.Flags().Bool("json", false, "print the result as JSON")
	runCmd.Flags().Bool("state", false, "also print per-qubit marginals and the final amplitudes")
	rootCmd.AddCommand(runCmd)
}
