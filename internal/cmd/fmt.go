package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"qcircuit/circuit"
	"qcircuit/qasm"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file|->",
	Short: "Parse a program and print it in canonical form",
	Long: `Parse a program written in either dialect and regenerate it with a
canonical header, one statement per line and 4-space indented blocks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		d := cfg.OutputDialect()
		if cmd.Flags().Changed("dialect") {
			if d, err = qasm.ParseDialect(GetString(cmd, "dialect")); err != nil {
				return err
			}
		}
		src, err := readProgram(cmd, args[0])
		if err != nil {
			return err
		}
		c, err := circuit.Parse(src)
		if err != nil {
			return err
		}
		text := c.Text(d)

		if path := GetString(cmd, "output"); path != "" {
			if err := os.WriteFile(path, []byte(text), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			log.WithFields(log.Fields{"path": path, "dialect": d}).Info("program written")
			return nil
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	},
}

func init() {
	fmtCmd.Flags().StringP("dialect", "d", "", "output dialect: 2.0 or 3.0")
	fmtCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(fmtCmd)
}
