// Package cli wires configuration, logging and the GUI or headless run
// behind a cobra command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"barcode-batcher/internal/config"
	"barcode-batcher/internal/logger"
	"barcode-batcher/internal/reference"
)

// AppName is shown in the window title and version output.
const AppName = "Barcode Batcher"

// environment is what PersistentPreRunE resolves for every subcommand.
type environment struct {
	cfg    *config.Config
	log    *logger.ZerologAdapter
	codes  []string
	config string
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root command. Without a subcommand it opens the GUI.
func NewRootCmd(version string) *cobra.Command {
	env := &environment{}

	cmd := &cobra.Command{
		Use:           "barcode-batcher",
		Short:         "Generate batches of barcode images",
		Long:          "Barcode Batcher generates $$-prefixed barcodes from a reference list, previews them and saves them as PNG files.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(cmd.Context(), env, version)
		},
	}

	cmd.PersistentFlags().StringVar(&env.config, "config", "", "config file (default ./barcode-batcher.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().Bool("log-json", false, "log JSON lines instead of console output")

	cmd.AddCommand(newGenerateCmd(env), newVersionCmd(version))
	return cmd
}

func (env *environment) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(env.config)
	if err != nil {
		return err
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON, _ = cmd.Flags().GetBool("log-json")
	}

	codes, err := reference.Load(cfg.Reference.File)
	if err != nil {
		return fmt.Errorf("load reference codes: %w", err)
	}

	env.cfg = cfg
	env.log = logger.New(cfg.Log.Level, cfg.Log.JSON)
	env.codes = codes

	env.log.Debug("cli", "configuration loaded", map[string]interface{}{
		"command":         cmd.Name(),
		"reference_codes": len(codes),
		"symbology":       cfg.Generation.Symbology,
	})
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute(version string) int {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", AppName, version)
		},
	}
}
