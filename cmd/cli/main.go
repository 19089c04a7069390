package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"facilitydash/domain/facility"
	"facilitydash/internal"
	"facilitydash/internal/analysis"
	"facilitydash/internal/config"
	"facilitydash/internal/container"
	"facilitydash/internal/dashboard"
	"facilitydash/internal/filter"
	"facilitydash/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "facilitydash-cli",
		Short: "Query and export the facility dataset without the web UI",
	}

	rootCmd.AddCommand(
		newStatesCmd(),
		newSummaryCmd(),
		newExportCmd(),
		newGenerateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// filterFlags are shared by commands that run the filter pipeline
type filterFlags struct {
	variant string
	state   string
	min     float64
	max     float64
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.variant, "variant", "infections", "Dashboard variant (facility or infections)")
	cmd.Flags().StringVar(&f.state, "state", "", "State to filter on; defaults to the first state in the data")
	cmd.Flags().Float64Var(&f.min, "min", 0, "Lower Score bound (inclusive); defaults to the minimum")
	cmd.Flags().Float64Var(&f.max, "max", 0, "Upper Score bound (inclusive); defaults to the maximum")
}

func (f *filterFlags) filterState(cmd *cobra.Command) dashboard.FilterState {
	fs := dashboard.FilterState{State: f.state}
	if cmd.Flags().Changed("min") {
		v := f.min
		fs.Min = &v
	}
	if cmd.Flags().Changed("max") {
		v := f.max
		fs.Max = &v
	}
	return fs
}

// renderView loads the data and runs one dashboard cycle
func (f *filterFlags) renderView(cmd *cobra.Command) (dashboard.View, error) {
	variant, ok := dashboard.Lookup(f.variant)
	if !ok {
		return dashboard.View{}, fmt.Errorf("unknown variant %q", f.variant)
	}
	c, err := newContainer()
	if err != nil {
		return dashboard.View{}, err
	}
	defer c.Shutdown(context.Background())

	ds, loadErr := c.Loader.Load(cmd.Context(), variant)
	view := dashboard.Render(dashboard.Input{
		Variant:    variant,
		Dataset:    ds,
		LoadErr:    loadErr,
		Filter:     f.filterState(cmd),
		TableLimit: c.Config.Dashboard.TableRowLimit,
	})
	if view.Failed() {
		return view, fmt.Errorf("%s", strings.Join(view.Errors, "; "))
	}
	return view, nil
}

// loadEnv reads .env (or the named files) into the environment if present
func loadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		internal.DefaultLogger.Debug("No .env file found, using system environment variables")
	}
}

func newContainer() (*container.Container, error) {
	loadEnv()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return container.New(cfg)
}

func newStatesCmd() *cobra.Command {
	var variantName string

	cmd := &cobra.Command{
		Use:   "states",
		Short: "List the distinct states in first-appearance order",
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, ok := dashboard.Lookup(variantName)
			if !ok {
				return fmt.Errorf("unknown variant %q", variantName)
			}
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			ds, err := c.Loader.Load(cmd.Context(), variant)
			if err != nil {
				return err
			}
			for _, s := range filter.States(ds) {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variantName, "variant", "infections", "Dashboard variant (facility or infections)")
	return cmd
}

// summaryReport is the machine-readable form of the summary command
type summaryReport struct {
	Title  string              `yaml:"title"`
	State  string              `yaml:"state"`
	Min    float64             `yaml:"min"`
	Max    float64             `yaml:"max"`
	Rows   int                 `yaml:"rows"`
	Scores *analysis.Summary   `yaml:"scores,omitempty"`
	Top    []map[string]string `yaml:"top"`
}

func newSummaryReport(view dashboard.View) summaryReport {
	r := summaryReport{
		Title: view.Title,
		State: view.Filter.State,
		Min:   view.Filter.Min,
		Max:   view.Filter.Max,
		Rows:  view.Filtered.Len(),
		Top:   []map[string]string{},
	}
	if s, ok := analysis.Summarize(view.Filtered.Values(facility.ColScore)); ok {
		r.Scores = &s
	}
	if top, ok := view.Panel(dashboard.PanelTop); ok && top.Table != nil {
		for _, row := range top.Table.Rows {
			entry := make(map[string]string, len(row))
			for i, col := range top.Table.Columns {
				entry[col] = row[i]
			}
			r.Top = append(r.Top, entry)
		}
	}
	return r
}

func newSummaryCmd() *cobra.Command {
	var flags filterFlags
	var format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print score statistics and the top facilities for a filter",
		Long: `Run the filter pipeline and print the applied filter, score statistics
and the Top 10 facilities by Score.

Example: facilitydash-cli summary --state TX --min 1 --max 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := flags.renderView(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(newSummaryReport(view)); err != nil {
					return fmt.Errorf("failed to encode summary: %w", err)
				}
				return enc.Close()
			case "text":
			default:
				return fmt.Errorf("unknown format %q (text or yaml)", format)
			}

			fmt.Fprintf(out, "%s\nState: %s  Score range: [%g, %g]\n", view.Title, view.Filter.State, view.Filter.Min, view.Filter.Max)
			if s, ok := analysis.Summarize(view.Filtered.Values(facility.ColScore)); ok {
				fmt.Fprintf(out, "Rows: %d  Mean: %.3f  Std: %.3f  Min: %g  Max: %g\n\n", view.Filtered.Len(), s.Mean, s.Std, s.Min, s.Max)
			} else {
				fmt.Fprintf(out, "Rows: %d (no scores)\n\n", view.Filtered.Len())
			}

			top, ok := view.Panel(dashboard.PanelTop)
			if !ok || top.Table == nil {
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join(top.Table.Columns, "\t"))
			for _, row := range top.Table.Rows {
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			return w.Flush()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")
	return cmd
}

func newExportCmd() *cobra.Command {
	var flags filterFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered rows to CSV or XLSX",
		Long: `Export the rows matching a State and Score range. The format follows
the output file extension (.csv or .xlsx).

Example: facilitydash-cli export --state CA --out filtered_data.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := flags.renderView(cmd)
			if err != nil {
				return err
			}

			var payload []byte
			if strings.HasSuffix(strings.ToLower(out), ".xlsx") {
				if payload, err = dashboard.ExportXLSX(view.Filtered); err != nil {
					return err
				}
			} else {
				variant, _ := dashboard.Lookup(flags.variant)
				if payload, err = dashboard.ExportCSV(view.Filtered, variant.Encoding); err != nil {
					return err
				}
			}
			if err := os.WriteFile(out, payload, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", view.Filtered.Len(), out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", dashboard.ExportFileName, "Output file")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var out string
	var count int
	var seed int64
	var latin1 bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic hospital infection CSV for demos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultFacilityConfig()
			cfg.FacilityCount = count
			cfg.Seed = seed

			rows := testkit.NewFacilityDataGenerator(cfg).GenerateRows()
			if err := testkit.WriteCSV(out, rows, latin1); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d facilities to %s\n", len(rows)-1, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", config.DefaultDataFile, "Output file")
	cmd.Flags().IntVar(&count, "count", 200, "Number of facilities")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")
	cmd.Flags().BoolVar(&latin1, "latin1", true, "Encode as ISO-8859-1 like the public hospital file")
	return cmd
}
