package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/gravfield/internal/analysis"
	"github.com/san-kum/gravfield/internal/binary"
	"github.com/san-kum/gravfield/internal/config"
	"github.com/san-kum/gravfield/internal/export"
	"github.com/san-kum/gravfield/internal/multipole"
	"github.com/san-kum/gravfield/internal/poisson"
	"github.com/san-kum/gravfield/internal/storage"
	"github.com/san-kum/gravfield/internal/sweep"
	"github.com/san-kum/gravfield/internal/viz"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	configFile string
	preset     string

	m1, m2     float64
	r1, r2     float64
	separation float64
	gravConst  float64
	halfWidth  float64
	gridSize   int

	terms         int
	boundaryTerms int
	sampleSize    int
	sampleHalf    float64

	noSave     bool
	fieldSVG   bool
	fieldFloor float64
	cutY       float64
	output     string
	pixel      int
	sizes      []int
	workers    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gravfield",
		Short:        "gravitational potential of a binary: multipole series and Poisson solver",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravfield", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	poissonCmd := &cobra.Command{
		Use:   "poisson",
		Short: "solve the Poisson equation on the grid",
		RunE:  runPoisson,
	}
	addSystemFlags(poissonCmd)
	poissonCmd.Flags().IntVar(&boundaryTerms, "boundary-terms", multipole.DefaultBoundaryTerms, "multipole order on pinned nodes")
	poissonCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	multipoleCmd := &cobra.Command{
		Use:   "multipole",
		Short: "evaluate the truncated multipole series",
		RunE:  runMultipole,
	}
	addSystemFlags(multipoleCmd)
	multipoleCmd.Flags().IntVar(&terms, "terms", config.DefaultTerms, "series order")
	multipoleCmd.Flags().IntVar(&sampleSize, "sample-size", config.DefaultSampleSize, "sample grid points per axis")
	multipoleCmd.Flags().Float64Var(&sampleHalf, "sample-half-width", config.DefaultSampleHalf, "sample grid half width")
	multipoleCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "solve on the grid and compare with the series",
		RunE:  runCompare,
	}
	addSystemFlags(compareCmd)
	compareCmd.Flags().IntVar(&terms, "terms", config.DefaultTerms, "series order")
	compareCmd.Flags().IntVar(&boundaryTerms, "boundary-terms", multipole.DefaultBoundaryTerms, "multipole order on pinned nodes")

	refineCmd := &cobra.Command{
		Use:   "refine",
		Short: "solve on a sequence of grids and report convergence",
		RunE:  runRefine,
	}
	addSystemFlags(refineCmd)
	refineCmd.Flags().IntSliceVar(&sizes, "sizes", []int{51, 101, 151}, "grid sizes")
	refineCmd.Flags().IntVar(&terms, "terms", config.DefaultTerms, "series order for the comparison")
	refineCmd.Flags().IntVar(&boundaryTerms, "boundary-terms", multipole.DefaultBoundaryTerms, "multipole order on pinned nodes")
	refineCmd.Flags().IntVar(&workers, "workers", 0, "concurrent solves (0: one per size)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	cutCmd := &cobra.Command{
		Use:   "cut [run_id]",
		Short: "plot the potential along a horizontal line",
		Args:  cobra.ExactArgs(1),
		RunE:  plotCut,
	}
	cutCmd.Flags().Float64Var(&cutY, "y", 0, "height of the cut")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "step through transverse cuts interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the potential as an SVG heatmap",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().IntVar(&pixel, "pixel", 4, "pixels per grid node")
	svgCmd.Flags().BoolVar(&fieldSVG, "field", false, "render log10 |g| instead of the potential")
	svgCmd.Flags().Float64Var(&fieldFloor, "floor", 1e-12, "added to |g| before the logarithm")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.json)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s m1=%g m2=%g a=%g r1=%g r2=%g L=%g N=%d\n", name,
					p.System.M1, p.System.M2, p.System.Separation, p.System.R1, p.System.R2,
					p.Grid.HalfWidth, p.Grid.Size)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with the default or a preset scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(poissonCmd, multipoleCmd, compareCmd, refineCmd, listCmd, cutCmd, viewCmd, svgCmd, exportJSONCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging() error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	if logJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&m1, "m1", config.DefaultMass, "mass of body 1")
	cmd.Flags().Float64Var(&m2, "m2", config.DefaultMass, "mass of body 2")
	cmd.Flags().Float64Var(&r1, "r1", config.DefaultRadius, "radius of body 1")
	cmd.Flags().Float64Var(&r2, "r2", config.DefaultRadius, "radius of body 2")
	cmd.Flags().Float64Var(&separation, "sep", config.DefaultSeparation, "separation")
	cmd.Flags().Float64Var(&gravConst, "g", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&halfWidth, "half-width", config.DefaultHalfWidth, "grid half width L")
	cmd.Flags().IntVar(&gridSize, "size", config.DefaultGridSize, "grid points per axis N")
}

// resolveConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	setFloat := func(name string, dst *float64, v float64) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setInt := func(name string, dst *int, v int) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setFloat("m1", &cfg.System.M1, m1)
	setFloat("m2", &cfg.System.M2, m2)
	setFloat("r1", &cfg.System.R1, r1)
	setFloat("r2", &cfg.System.R2, r2)
	setFloat("sep", &cfg.System.Separation, separation)
	setFloat("g", &cfg.System.G, gravConst)
	setFloat("half-width", &cfg.Grid.HalfWidth, halfWidth)
	setInt("size", &cfg.Grid.Size, gridSize)
	setInt("terms", &cfg.Multipole.Terms, terms)
	setInt("boundary-terms", &cfg.Multipole.BoundaryTerms, boundaryTerms)
	setInt("sample-size", &cfg.Multipole.SampleSize, sampleSize)
	setFloat("sample-half-width", &cfg.Multipole.SampleHalf, sampleHalf)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPoisson(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("solving %dx%d grid (L=%g)...\n", cfg.Grid.Size, cfg.Grid.Size, cfg.Grid.HalfWidth)
	start := time.Now()
	sol, err := poisson.Solver{BoundaryTerms: cfg.Multipole.BoundaryTerms}.Solve(cfg.System, cfg.Grid)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	g, err := sol.Field()
	if err != nil {
		return err
	}
	far, err := multipole.New(cfg.System, cfg.Multipole.BoundaryTerms)
	if err != nil {
		return err
	}
	pinned, err := analysis.PinnedAgreement(sol, far)
	if err != nil {
		return err
	}
	masses := analysis.BodyMasses(sol.Density, cfg.System)

	metrics := map[string]float64{
		"phi_min":          floats.Min(sol.Potential.RawMatrix().Data),
		"phi_max":          floats.Max(sol.Potential.RawMatrix().Data),
		"residual":         sol.Residual,
		"pinned_nodes":     float64(sol.Pinned),
		"pinned_max_rel":   pinned.MaxRelative,
		"switching_radius": sol.SwitchingRadius,
		"mass_1":           masses[0],
		"mass_2":           masses[1],
		"elapsed_ms":       float64(elapsed.Microseconds()) / 1000,
	}
	fmt.Println(viz.Summary("poisson solution", metrics))
	printDiagnostics(sol.Diagnostics)

	if noSave {
		return nil
	}
	return saveRun(storage.Run{
		Method:    "poisson",
		System:    cfg.System,
		Grid:      cfg.Grid,
		Terms:     cfg.Multipole.BoundaryTerms,
		Potential: sol.Potential,
		Field:     g,
		Metrics:   metrics,
	})
}

func runMultipole(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	model, err := multipole.New(cfg.System, cfg.Multipole.Terms)
	if err != nil {
		return err
	}
	grid := cfg.SampleGrid()
	axis := grid.Axis()
	phi, g, err := model.FieldGrid(axis, axis)
	if err != nil {
		return err
	}

	conv, err := analysis.SeriesConvergence(cfg.System, cfg.Grid.HalfWidth, 0, cfg.Multipole.Terms)
	if err != nil {
		return err
	}
	metrics := map[string]float64{
		"phi_min":   floats.Min(phi.RawMatrix().Data),
		"phi_max":   floats.Max(phi.RawMatrix().Data),
		"terms":     float64(cfg.Multipole.Terms),
		"last_term": lastTerm(conv),
		"spacing":   grid.Spacing(),
	}
	fmt.Println(viz.Summary("multipole series", metrics))

	if noSave {
		return nil
	}
	return saveRun(storage.Run{
		Method:    "multipole",
		System:    cfg.System,
		Grid:      grid,
		Terms:     cfg.Multipole.Terms,
		Potential: phi,
		Field:     g,
		Metrics:   metrics,
	})
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sol, err := poisson.Solver{BoundaryTerms: cfg.Multipole.BoundaryTerms}.Solve(cfg.System, cfg.Grid)
	if err != nil {
		return err
	}
	far, err := multipole.New(cfg.System, cfg.Multipole.Terms)
	if err != nil {
		return err
	}
	pinned, err := analysis.PinnedAgreement(sol, far)
	if err != nil {
		return err
	}
	interior, err := analysis.InteriorAgreement(sol, far)
	if err != nil {
		return err
	}

	mid := cfg.Grid.Size / 2
	minima := analysis.RowMinima(sol.Potential, mid)
	axis := cfg.Grid.Axis()
	fmt.Println(viz.Summary("poisson vs multipole", map[string]float64{
		"pinned_nodes":     float64(pinned.Nodes),
		"pinned_max_abs":   pinned.MaxAbsolute,
		"pinned_max_rel":   pinned.MaxRelative,
		"interior_nodes":   float64(interior.Nodes),
		"interior_max_abs": interior.MaxAbsolute,
		"interior_max_rel": interior.MaxRelative,
		"mirror_asymmetry": analysis.MirrorAsymmetry(sol.Potential),
		"axis_minima":      float64(len(minima)),
	}))
	for _, j := range minima {
		fmt.Printf("  minimum at x=%.4f phi=%.6g\n", axis[j], sol.Potential.At(mid, j))
	}
	printDiagnostics(sol.Diagnostics)
	return nil
}

func runRefine(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := sweep.Refinement{
		System:        cfg.System,
		HalfWidth:     cfg.Grid.HalfWidth,
		Sizes:         sizes,
		BoundaryTerms: cfg.Multipole.BoundaryTerms,
		Terms:         cfg.Multipole.Terms,
		Workers:       workers,
	}
	results, err := r.Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\th\tRESIDUAL\tPINNED REL\tASYMMETRY")
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%d\t-\t%v\t\t\n", res.Grid.Size, res.Err)
			continue
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.2e\t%.2e\t%.2e\n",
			res.Grid.Size, res.Spacing, res.Residual, res.Pinned.MaxRelative, res.Asymmetry)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMETHOD\tGRID\tTERMS\tTIMESTAMP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d L=%g\t%d\t%s\n",
			run.ID, run.Method, run.Grid.Size, run.Grid.Size, run.Grid.HalfWidth, run.Terms,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotCut(cmd *cobra.Command, args []string) error {
	meta, phi, err := loadRun(args[0])
	if err != nil {
		return err
	}
	row := viz.NearestRow(meta.Grid, cutY)
	label := fmt.Sprintf("%s potential along y = %.3g", meta.Method, meta.Grid.Axis()[row])
	fmt.Println(viz.TransverseCut(phi, meta.Grid, row, 70, 15, label))
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	meta, phi, err := loadRun(args[0])
	if err != nil {
		return err
	}
	g, err := poisson.FieldFromGrid(phi, meta.Grid)
	if err != nil {
		return err
	}
	return viz.RunViewer(viz.NewViewer(meta.Grid, phi, g.Magnitude()))
}

func renderSVG(cmd *cobra.Command, args []string) error {
	meta, phi, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := output
	if path == "" {
		path = args[0] + ".svg"
	}
	var svg string
	if fieldSVG {
		if svg, err = export.FieldSVG(phi, meta.Grid, meta.System, pixel, fieldFloor); err != nil {
			return err
		}
	} else {
		svg = export.HeatmapSVG(phi, meta.Grid, meta.System, pixel)
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("svg written to %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	path := output
	if path == "" {
		path = args[0] + ".json"
	}
	st := storage.New(dataDir)
	if err := st.ExportJSONFile(path, args[0]); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func loadRun(runID string) (*storage.RunMetadata, *mat.Dense, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	phi, err := st.LoadPotential(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, phi, nil
}

func saveRun(run storage.Run) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(run)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func printDiagnostics(diags []binary.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.String()
	}
	fmt.Println(viz.Warning.Render(strings.Join(lines, "\n")))
}

func lastTerm(diffs []float64) float64 {
	if len(diffs) == 0 {
		return 0
	}
	return diffs[len(diffs)-1]
}
