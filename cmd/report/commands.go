package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/devbracket/internal/adapters/ingest"
	service "github.com/okian/devbracket/internal/app"
	"github.com/okian/devbracket/internal/config"
	"github.com/okian/devbracket/internal/synth"
	"github.com/okian/devbracket/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "report",
		Short:        "Development bracket reports for exercise-test datasets",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return logger.SetLevelString(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(newAnalyzeCmd(), newGenerateCmd(), newSubmitCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var (
		user   string
		out    string
		format string
		indent bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Build the cohort report of a .csv or .xlsx dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}

			path := args[0]
			f, err := parseFormat(format, path)
			if err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer func() { _ = file.Close() }()

			svc := service.New(service.WithConfig(cfg), service.WithLogger(logger.Named("report")))
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			res, err := svc.Analyze(ctx, service.Upload{Name: filepath.Base(path), Format: f, Body: file})
			if err != nil {
				return err
			}

			var v any = res.Record.Report
			if user != "" {
				u, err := svc.User(ctx, res.Record.ID, user)
				if err != nil {
					return err
				}
				v = u
			}
			return writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				if indent {
					enc.SetIndent("", "  ")
				}
				return enc.Encode(v)
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Print the individual analysis of this user instead of the cohort report")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write JSON to this file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "", "Dataset format (csv or xlsx); inferred from the extension by default")
	cmd.Flags().BoolVar(&indent, "indent", true, "Indent JSON output")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		users    int
		tests    int
		seed     uint64
		interval int
		missing  float64
		format   string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic cohort dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormat(format, out)
			if err != nil {
				return err
			}
			obs, err := synth.New(
				synth.WithUsers(users),
				synth.WithMaxTests(tests),
				synth.WithSeed(seed),
				synth.WithIntervalDays(interval),
				synth.WithMissingRate(missing),
			).Generate(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				return ingest.Write(w, f, obs)
			}); err != nil {
				return err
			}
			logger.Get().Info(cmd.Context(), "dataset generated",
				logger.Int("rows", len(obs)), logger.String("format", string(f)))
			return nil
		},
	}
	cmd.Flags().IntVar(&users, "users", 100, "Number of users")
	cmd.Flags().IntVar(&tests, "tests", 4, "Maximum test sessions per user")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&interval, "interval-days", 45, "Nominal days between test sessions")
	cmd.Flags().Float64Var(&missing, "missing-rate", 0.03, "Probability of a blank metric cell")
	cmd.Flags().StringVar(&format, "format", "", "Output format (csv or xlsx); inferred from --out, csv by default")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newSubmitCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "submit <file>",
		Short: "Upload a dataset to a running service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}
			res, err := synth.NewClient(url, timeout).Submit(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report %s (duplicate=%t): %d users, %d multi-test, %d single-test, %d excluded\n",
				res.ID, res.Duplicate, res.Users.Total, res.Users.MultiTest, res.Users.SingleTest, res.Users.Excluded)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:9080", "Base URL of the service")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP request timeout")
	return cmd
}

// parseFormat resolves an explicit format or infers it from path.
func parseFormat(explicit, path string) (ingest.Format, error) {
	switch {
	case explicit != "":
		return ingest.ParseFormat(explicit)
	case path != "":
		return ingest.FormatFromFilename(path)
	default:
		return ingest.CSV, nil
	}
}

// writeOutput writes to path, or to stdout when path is empty. Files are
// only created once the content has been produced.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
