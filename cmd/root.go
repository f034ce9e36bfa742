package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/track-preprocess/internal/config"
	"github.com/sells-group/track-preprocess/internal/preprocess"
	"github.com/sells-group/track-preprocess/internal/trackfile"
)

// cfg is set once config and logger are both ready.
var cfg *config.Config

var curvature bool

// newStore is swapped in tests.
var newStore = func() preprocess.FileStore { return trackfile.NewOS() }

var rootCmd = &cobra.Command{
	Use:           "track-preprocess input_file output_file",
	Short:         "Preprocess a track dataset for the optimiser",
	Long:          "Reads a track description, records its provenance, applies the selected preprocessing steps and writes the result as formatted JSON.",
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true, // reportError prints failures once
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if err := config.InitLogger(c.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		cfg = c

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		p := preprocess.NewPipeline(newStore(), cfg.Output.Format())
		opts := preprocess.Options{Curvature: curvature}
		return p.Run(args[0], args[1], opts)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&curvature, "curvature", "c", false, "preprocess curvature information")
}

// reportError logs err through zap, or writes it to w when the logger
// never came up (bad arguments or config).
func reportError(w io.Writer, err error) {
	if cfg == nil {
		fmt.Fprintln(w, "Error:", err)
		return
	}
	zap.L().Error("an error occurred, no output written", zap.Error(err))
	_ = zap.L().Sync()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
