package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jask/rentdesk/internal/config"
	"github.com/jask/rentdesk/internal/prefs"
	"github.com/jask/rentdesk/internal/reports"
	"github.com/jask/rentdesk/internal/tui"
)

func newRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:           appName,
		Short:         "Record and export rent payments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				v.SetConfigFile(path)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, v)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default $HOME/.config/rentdesk/config.toml)")
	root.PersistentFlags().String("db", "", "sqlite database path")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("database.path", root.PersistentFlags().Lookup("db"))
	_ = v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newExportCmd(v),
		newSeedCmd(v),
		newResetCmd(v),
	)
	return root
}

func runTUI(cmd *cobra.Command, v *viper.Viper) error {
	rt, err := openRuntime(v, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	store, err := prefs.DefaultStore()
	if err != nil {
		rt.log.WithError(err).Warn("export preferences disabled")
		store = nil
	}

	app := tui.New(cmd.Context(), tui.Options{
		Config:    rt.cfg,
		Directory: rt.directory,
		Payments:  rt.payments,
		Reports:   rt.reports,
		Prefs:     store,
		Location:  rt.loc,
		OnViewHistory: func() {
			rt.log.Debug("payment history requested")
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func newExportCmd(v *viper.Viper) *cobra.Command {
	var (
		from, to    string
		preset      string
		format      string
		filterBy    string
		filterValue string
		outDir      string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a payments report (pdf, excel or csv)",
		Example: `  rentdesk export --range last-month --format excel
  rentdesk export --from 2025-01-01 --to 2025-03-31 --filter-by tenant --filter-value alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir != "" {
				v.Set("export.output_dir", outDir)
			}
			rt, err := openRuntime(v, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			if format == "" {
				format = rt.cfg.Export.DefaultFormat
			}
			req := reports.Request{Format: format, FilterBy: filterBy, FilterValue: filterValue}
			switch {
			case preset != "":
				req.DateFrom, req.DateTo, err = reports.QuickRange(preset, time.Now().In(rt.loc))
			case from == "" && to == "":
				req.DateFrom, req.DateTo, err = reports.QuickRange(reports.ThisMonth, time.Now().In(rt.loc))
			default:
				req.DateFrom, req.DateTo, err = parseRange(from, to)
			}
			if err != nil {
				return err
			}

			art, err := rt.reports.Export(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d payments to %s\n", art.Rows, art.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&preset, "range", "", "quick range: "+strings.Join(reports.Presets, ", "))
	cmd.Flags().StringVar(&format, "format", "", "output format: "+strings.Join(reports.Formats, ", "))
	cmd.Flags().StringVar(&filterBy, "filter-by", reports.FilterAll, "filter field: "+strings.Join(reports.FilterFields, ", "))
	cmd.Flags().StringVar(&filterValue, "filter-value", "", "value to match for --filter-by")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default export.output_dir)")
	cmd.MarkFlagsMutuallyExclusive("range", "from")
	cmd.MarkFlagsMutuallyExclusive("range", "to")
	return cmd
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: --from and --to go together", reports.ErrInvalidRange)
	}
	f, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
	}
	t, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
	}
	return f, t, nil
}

func newSeedCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo portfolio (safe to run twice)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(v, false)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "demo data loaded into", rt.cfg.Database.Path)

			if explicit, _ := cmd.Flags().GetString("config"); explicit != "" {
				return nil
			}
			return writeStarterConfig(cmd, rt.cfg)
		},
	}
}

// writeStarterConfig saves the effective settings when no config file exists
// yet, so later runs find the seeded database without flags.
func writeStarterConfig(cmd *cobra.Command, cfg config.Config) error {
	path := config.Path()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote starter config to", path)
	return nil
}

func newResetCmd(v *viper.Viper) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all properties, leases and payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd, "This deletes all data. Continue? [y/N] ") {
				fmt.Fprintln(cmd.OutOrStdout(), "aborted")
				return nil
			}
			rt, err := openRuntime(v, false)
			if err != nil {
				return err
			}
			defer rt.Close()
			if err := rt.maintenance.Reset(cmd.Context()); err != nil {
				return err
			}
			rt.log.Warn("database reset")
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
