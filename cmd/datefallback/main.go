package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tiger/datefallback/internal/config"
	"github.com/tiger/datefallback/internal/facade"
	"github.com/tiger/datefallback/internal/observability/diagnostics"
	"github.com/tiger/datefallback/internal/observability/logging"
	"github.com/tiger/datefallback/pkg/datehandler"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, time.Now); err != nil {
		fmt.Fprintf(os.Stderr, "datefallback: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	configPath string
	verbose    bool
	parallel   bool
	disable    []string
}

func run(args []string, stdout io.Writer, stderr io.Writer, now func() time.Time) error {
	c := &cli{stdout: stdout, stderr: stderr, now: now}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "datefallback",
		Short:         "Date formatting with capability-probed strategy fallback",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log every capability event")
	root.PersistentFlags().BoolVar(&c.parallel, "parallel", false, "probe strategies concurrently")
	root.PersistentFlags().StringSliceVar(&c.disable, "disable", nil, "strategy names to disable")

	root.AddCommand(
		&cobra.Command{
			Use:   "probe",
			Short: "Probe every strategy and report the selection",
			Args:  cobra.NoArgs,
			RunE:  c.withHandler(c.probe),
		},
		&cobra.Command{
			Use:   "format <instant>",
			Short: "Render an instant as a title (October 15, 2023)",
			Args:  cobra.ExactArgs(1),
			RunE: c.withFacade(func(f *facade.Facade, args []string) error {
				return c.print(f.FormatDate(instantArg(args[0])))
			}),
		},
		&cobra.Command{
			Use:   "uid <instant>",
			Short: "Render an instant as an MM-DD-YYYY identifier",
			Args:  cobra.ExactArgs(1),
			RunE: c.withFacade(func(f *facade.Facade, args []string) error {
				return c.print(f.FormatUID(instantArg(args[0])))
			}),
		},
		&cobra.Command{
			Use:   "parse-uid <uid>",
			Short: "Parse an MM-DD-YYYY identifier",
			Args:  cobra.ExactArgs(1),
			RunE: c.withFacade(func(f *facade.Facade, args []string) error {
				t, ok := f.ParseUID(args[0])
				if !ok {
					return fmt.Errorf("invalid uid %q", args[0])
				}
				return c.print(f.FormatISO(t) + " " + f.FormatDate(t))
			}),
		},
		&cobra.Command{
			Use:   "offset <days> [base]",
			Short: "Describe the day offset from base (default today)",
			Args:  cobra.RangeArgs(1, 2),
			RunE: c.withFacade(func(f *facade.Facade, args []string) error {
				days, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("days: %w", err)
				}
				day, ok := f.GetDayWithOffset(days, baseArg(args[1:])...)
				if !ok {
					return fmt.Errorf("invalid base date")
				}
				return c.printDay(day)
			}),
		},
		&cobra.Command{
			Use:   "range <start> <end> [base]",
			Short: "List days between two offsets inclusive",
			Args:  cobra.RangeArgs(2, 3),
			RunE: c.withFacade(func(f *facade.Facade, args []string) error {
				start, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("start: %w", err)
				}
				end, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("end: %w", err)
				}
				for _, day := range f.DateRange(start, end, baseArg(args[2:])...) {
					if err := c.printDay(day); err != nil {
						return err
					}
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "locale <instant> <tag>",
			Short: "Render an instant in a locale's long form",
			Args:  cobra.ExactArgs(2),
			RunE: c.withFacade(func(f *facade.Facade, args []string) error {
				return c.print(f.FormatLocale(instantArg(args[0]), args[1]))
			}),
		},
		&cobra.Command{
			Use:   "diagnostics",
			Short: "Print a diagnostics snapshot as JSON",
			Args:  cobra.NoArgs,
			RunE:  c.withHandler(c.diagnostics),
		},
		&cobra.Command{
			Use:   "validate-config <path>",
			Short: "Validate a config file against the schema",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				cfg, err := config.Load(args[0])
				if err != nil {
					return err
				}
				return c.print(fmt.Sprintf("config valid: %s locale=%s time_zone=%s", args[0], cfg.Locale, cfg.TimeZone))
			},
		},
	)
	return root
}

func (c *cli) loadConfig() (config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	cfg, err := config.ApplyEnv(cfg)
	if err != nil {
		return config.Config{}, err
	}
	if c.parallel {
		cfg.ParallelProbe = true
	}
	cfg.DisabledStrategies = append(cfg.DisabledStrategies, c.disable...)
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func (c *cli) buildHandler() (*datehandler.Handler, *zap.Logger, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewWriter(cfg.Logging, c.stderr)
	if err != nil {
		return nil, nil, err
	}
	h, err := datehandler.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return h, logger, nil
}

func (c *cli) withHandler(fn func(*datehandler.Handler) error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		h, logger, err := c.buildHandler()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return fn(h)
	}
}

func (c *cli) withFacade(fn func(*facade.Facade, []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		h, logger, err := c.buildHandler()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return fn(facade.New(h.Orchestrator, facade.WithNow(c.now)), args)
	}
}

func (c *cli) probe(h *datehandler.Handler) error {
	o := h.Orchestrator
	o.Initialize(context.Background())
	for _, result := range o.Results() {
		line := fmt.Sprintf("%-9s succeeded=%t elapsed_ms=%.3f", result.StrategyName, result.Succeeded, result.ElapsedMS)
		if result.Error != "" {
			line += " error=" + strconv.Quote(result.Error)
		}
		if err := c.print(line); err != nil {
			return err
		}
	}
	return c.print(o.Summary())
}

func (c *cli) diagnostics(h *datehandler.Handler) error {
	h.Orchestrator.Initialize(context.Background())
	snapshot, err := diagnostics.Capture(h.Orchestrator, c.now())
	if err != nil {
		return err
	}
	fingerprint, err := snapshot.Fingerprint()
	if err != nil {
		return err
	}
	out := struct {
		Fingerprint string               `json:"fingerprint"`
		Snapshot    diagnostics.Snapshot `json:"snapshot"`
	}{Fingerprint: fingerprint, Snapshot: snapshot}
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (c *cli) printDay(day facade.DayInfo) error {
	return c.print(fmt.Sprintf("%s\t%s\t%d", day.UID, day.Title, day.TimestampMS))
}

func (c *cli) print(line string) error {
	_, err := fmt.Fprintln(c.stdout, line)
	return err
}

// instantArg turns an all-digit argument into epoch milliseconds.
func instantArg(arg string) any {
	arg = strings.TrimSpace(arg)
	if ms, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return ms
	}
	return arg
}

func baseArg(args []string) []any {
	if len(args) == 0 || args[0] == "" || args[0] == "today" {
		return nil
	}
	return []any{instantArg(args[0])}
}
