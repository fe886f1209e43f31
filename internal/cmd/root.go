package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"qcircuit/internal/config"
)

// Version is filled when building with ldflags, but not when installing
// via "go install".
var Version string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qcircuit",
	Short: "A state-vector simulator for small quantum circuits.",
	Long: `Simulate OpenQASM-style programs with nested if/while/for blocks on a
dense state vector, convert them between dialects, or inspect them interactively.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Println("qcircuit " + version())
			return
		}
		_ = cmd.Help()
	},
}

func version() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown version)"
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the settings file and applies the log level, letting
// --verbose win.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := GetString(cmd, "config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log.SetLevel(cfg.Level())
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	log.WithField("path", path).Debug("configuration loaded")
	return cfg, nil
}

func init() {
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "settings file")
}
