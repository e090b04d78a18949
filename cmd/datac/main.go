package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/sgostarter/i/l"
	"github.com/spf13/cobra"

	"github.com/san-kum/datac/internal/config"
	"github.com/san-kum/datac/internal/driver"
	"github.com/san-kum/datac/internal/plot"
	"github.com/san-kum/datac/internal/storage"
	"github.com/san-kum/datac/internal/study"
)

var (
	dataDir    string
	plotDir    string
	plotType   string
	clobber    bool
	noDisplay  bool
	configFile string
	preset     string
	logLevel   string
	termWidth  int
	termHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "datac",
		Short:         "compute, cache and plot parameter sweeps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for cached data files (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info or off")

	runCmd := &cobra.Command{
		Use:   "run [study]",
		Short: "compute or reuse a study's data and plot it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStudy,
	}
	runCmd.Flags().StringVar(&plotDir, "plot-dir", "", "directory for plot images (default: current directory)")
	runCmd.Flags().BoolVarP(&clobber, "clobber", "c", false, "recompute even if cached data exists")
	runCmd.Flags().BoolVarP(&noDisplay, "nodisplay", "n", false, "do not show the plot on screen")
	runCmd.Flags().StringVarP(&plotType, "plot-type", "t", config.DefaultPlotType, "plot file type: png or svg")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	studiesCmd := &cobra.Command{
		Use:   "studies",
		Short: "list available studies",
		RunE:  listStudies,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [study]",
		Short: "list available presets for a study",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for study: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list cached data files",
		RunE:  listData,
	}

	showCmd := &cobra.Command{
		Use:   "show [name]",
		Short: "print a cached data file",
		Args:  cobra.ExactArgs(1),
		RunE:  showData,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [name]",
		Short: "plot a cached data file in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotData,
	}
	plotCmd.Flags().IntVar(&termWidth, "width", plot.DefaultTerminalOptions().Width, "plot width in columns")
	plotCmd.Flags().IntVar(&termHeight, "height", plot.DefaultTerminalOptions().Height, "plot height in rows")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [name]",
		Short: "export a cached data file to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	rootCmd.AddCommand(runCmd, studiesCmd, presetsCmd, listCmd, showCmd, plotCmd, exportCSVCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(level string) l.Wrapper {
	if level == "off" {
		return l.NewNopLoggerWrapper()
	}
	return l.NewConsoleLoggerWrapper().WithFields(l.StringField("app", "datac"))
}

// resolveConfig layers study defaults, preset, config file and flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string, registry *study.Registry) (*config.Config, study.Study, study.Setup, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, study.Setup{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	switch {
	case len(args) > 0:
		cfg.Study = args[0]
	case configFile == "":
		if root := driver.NameRoot(os.Args[0]); root != "" {
			if _, err := registry.Get(root); err == nil {
				cfg.Study = root
			}
		}
	}

	s, err := registry.Get(cfg.Study)
	if err != nil {
		return nil, nil, study.Setup{}, err
	}

	setup := s.Defaults()
	if preset != "" {
		p := config.GetPreset(cfg.Study, preset)
		if p == nil {
			return nil, nil, study.Setup{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Study))
		}
		setup = p.Apply(setup)
	}
	setup = cfg.Apply(setup)

	flags := cmd.Flags()
	if flags.Changed("data-dir") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("plot-dir") || cfg.PlotDir == "" {
		cfg.PlotDir = plotDir
	}
	if flags.Changed("plot-type") {
		cfg.PlotType = plotType
	}
	if flags.Changed("clobber") {
		cfg.Clobber = clobber
	}
	if flags.Changed("nodisplay") {
		cfg.NoDisplay = noDisplay
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if cfg.DataDir, err = absDir(cfg.DataDir); err != nil {
		return nil, nil, study.Setup{}, err
	}
	if cfg.PlotDir, err = absDir(cfg.PlotDir); err != nil {
		return nil, nil, study.Setup{}, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, study.Setup{}, err
	}
	return cfg, s, setup, nil
}

func absDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

func runStudy(cmd *cobra.Command, args []string) error {
	registry := study.NewRegistry()
	cfg, s, setup, err := resolveConfig(cmd, args, registry)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	out, err := driver.Run(cmd.Context(), driver.Options{
		Study:     s,
		Setup:     setup,
		Store:     storage.New(cfg.DataDir, logger),
		DataDir:   cfg.DataDir,
		PlotDir:   cfg.PlotDir,
		PlotType:  cfg.PlotType,
		Clobber:   cfg.Clobber,
		NoDisplay: cfg.NoDisplay,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	status := "computed"
	if out.Reused {
		status = "reused"
	}
	fmt.Printf("%s: %s %d points\n", out.Name, status, len(out.Document.Abscissae))
	fmt.Printf("  data: %s\n", out.DataPath)
	if out.PlotPath != "" {
		fmt.Printf("  plot: %s\n", out.PlotPath)
	}
	return nil
}

func listStudies(cmd *cobra.Command, args []string) error {
	registry := study.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STUDY\tABSCISSA\tDESCRIPTION")
	for _, name := range registry.List() {
		s, err := registry.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, s.Defaults().AbscissaName, s.Description())
	}
	return w.Flush()
}

func openStore() (*storage.Store, error) {
	dir, err := absDir(dataDir)
	if err != nil {
		return nil, err
	}
	return storage.New(dir, newLogger(logLevel)), nil
}

func listData(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	names, err := st.List()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("no data files found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tABSCISSA\tORDINATE\tPOINTS")
	for _, name := range names {
		doc, err := st.Load(name)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t(unreadable)\n", name)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", name, doc.AbscissaName, doc.OrdinateName, len(doc.Abscissae))
	}
	return w.Flush()
}

func loadDocument(name string) (*storage.Document, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	return st.Load(driver.NameRoot(name))
}

func showData(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc.Projection(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func plotData(cmd *cobra.Command, args []string) error {
	name := driver.NameRoot(args[0])
	doc, err := loadDocument(name)
	if err != nil {
		return err
	}
	series, err := driver.SeriesOf(name, doc)
	if err != nil {
		return err
	}
	fmt.Println(plot.Terminal(series, plot.TerminalOptions{Width: termWidth, Height: termHeight}))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	name := driver.NameRoot(args[0])
	doc, err := loadDocument(name)
	if err != nil {
		return err
	}
	series, err := driver.SeriesOf(name, doc)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{doc.AbscissaName, series.YAxisLabel()}); err != nil {
		return err
	}
	for i, a := range doc.Abscissae {
		row := []string{fmt.Sprint(a), strconv.FormatFloat(series.Y[i], 'g', -1, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
