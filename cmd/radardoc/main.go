// Command radardoc generates the Word reports of a radar interferometry
// processing run from its Policy folders.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/radardoc/config"
	"github.com/tsawler/radardoc/docx"
	"github.com/tsawler/radardoc/report"
)

var (
	cfgPath  string
	logLevel string
	noOpen   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "radardoc",
		Short:         "Generate InSAR processing reports as Word documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
				Level(level).
				With().Timestamp().Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgPath, "config", "c", "", "Path to a YAML configuration file")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.BoolVar(&noOpen, "no-open", false, "Do not open the merged report when done")
	pf.String("templates", "", "Folder holding baseline.docx and coherence.docx")
	pf.String("output-dir", "", "Folder for merged reports (default <root>/doc)")
	pf.Bool("continue-on-error", false, "Skip policies with bad input instead of stopping")
	pf.String("encoding", "", "Text encoding of input data files (default utf-8)")
	pf.String("ghostscript", "", "Ghostscript executable used to rasterize EPS plots")
	pf.StringSlice("area", nil, "Area name for the baseline pages; repeat for several")
	pf.Bool("xlsx", false, "Also write the baseline tables to a workbook")

	rootCmd.AddCommand(
		reportCmd("baseline", "Build the baseline report", (*report.Batch).RunBaseline),
		reportCmd("coherence", "Build the coherence report", (*report.Batch).RunCoherence),
		reportCmd("coregistration", "Render the coregistration error charts", (*report.Batch).RunCoregistration),
		diagnoseCmd(),
		inspectCmd(),
	)
	return rootCmd
}

// loadBatch reads the configuration and discovers the policies of root.
func loadBatch(cmd *cobra.Command, root string) (*report.Batch, error) {
	cfg, err := config.Load(cfgPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if noOpen {
		cfg.Open = false
	}

	b, err := report.NewBatch(root, cfg)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(cmd.Context()).Info().
		Str("root", root).
		Int("policies", len(b.Policies())).
		Msg("policies found")
	for _, p := range b.Policies() {
		zerolog.Ctx(cmd.Context()).Debug().Str("policy", filepath.Base(p)).Msg("found")
	}
	return b, nil
}

type runFunc func(*report.Batch, context.Context) (*report.Result, error)

func reportCmd(use, short string, run runFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <root>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := loadBatch(cmd, args[0])
			if err != nil {
				return err
			}

			res, err := run(b, ctx)
			if err != nil {
				return err
			}

			log := zerolog.Ctx(ctx)
			log.Info().
				Int("parts", len(res.Parts)).
				Int("skipped", len(res.Skipped)).
				Int("failed", len(res.Failed)).
				Msg("done")

			if res.Output == "" {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			if b.Config.Open {
				if err := (report.SystemOpener{}).Open(ctx, res.Output); err != nil {
					log.Warn().Err(err).Msg("could not open report")
				}
			}
			return nil
		},
	}
}

func diagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose <root>",
		Short: "Check every policy's inputs before generating reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBatch(cmd, args[0])
			if err != nil {
				return err
			}

			ds, err := b.Diagnose(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range ds {
				if d.OK() {
					fmt.Fprintf(out, "%d  %s  ok\n", d.Index, d.Policy)
				} else {
					fmt.Fprintf(out, "%d  %s  %v\n", d.Index, d.Policy, d.Err)
				}
			}

			if failed := report.Failed(ds); len(failed) > 0 {
				return fmt.Errorf("%d of %d policies have missing inputs", len(failed), len(ds))
			}
			return nil
		},
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.docx>",
		Short: "Print the paragraphs and tables of a template with their indices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := docx.Open(args[0])
			if err != nil {
				return err
			}
			return doc.Dump(cmd.OutOrStdout())
		},
	}
}
