package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/hyperview/internal/analysis"
	"github.com/san-kum/hyperview/internal/anim"
	"github.com/san-kum/hyperview/internal/config"
	"github.com/san-kum/hyperview/internal/export"
	"github.com/san-kum/hyperview/internal/gui"
	"github.com/san-kum/hyperview/internal/metrics"
	"github.com/san-kum/hyperview/internal/ndspace"
	"github.com/san-kum/hyperview/internal/polytope"
	"github.com/san-kum/hyperview/internal/quality"
	"github.com/san-kum/hyperview/internal/render"
	"github.com/san-kum/hyperview/internal/storage"
	"github.com/san-kum/hyperview/internal/tui"
	"github.com/san-kum/hyperview/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	configFile string
	preset     string
	outPath    string
	width      int
	height     int
	frames     int
	fps        int
	setParams  []string
	// Sweep range
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// Wireframe
	dimension int
	family    string
	// Live terminal playback
	live    bool
	save    bool
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hyperview",
		Short: "n-dimensional geometry renderer",
		Run: func(cmd *cobra.Command, args []string) {
			// Default to interactive GUI mode when no command given
			gui.RunInteractive()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hyperview", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	renderCmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "render a single frame to PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderFrame,
	}
	renderCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "render.png", "output path")
	renderCmd.Flags().IntVar(&width, "width", 0, "override frame width")
	renderCmd.Flags().IntVar(&height, "height", 0, "override frame height")
	renderCmd.Flags().StringArrayVar(&setParams, "set", nil, "override parameter (name=value)")

	animateCmd := &cobra.Command{
		Use:   "animate [preset]",
		Short: "render an animation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  animate,
	}
	animateCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	animateCmd.Flags().StringVarP(&outPath, "out", "o", "", "GIF output path")
	animateCmd.Flags().IntVar(&frames, "frames", 60, "frame count")
	animateCmd.Flags().IntVar(&fps, "fps", 0, "override frames per second")
	animateCmd.Flags().IntVar(&width, "width", 0, "override frame width")
	animateCmd.Flags().IntVar(&height, "height", 0, "override frame height")
	animateCmd.Flags().BoolVar(&live, "live", false, "play frames in the terminal while rendering")
	animateCmd.Flags().BoolVar(&save, "save", false, "archive frames in the data directory")
	animateCmd.Flags().StringArrayVar(&setParams, "set", nil, "override parameter (name=value)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "stream the animation to the terminal until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			live = true
			frames = math.MaxInt32
			outPath = ""
			save = false
			return animate(cmd, args)
		},
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	liveCmd.Flags().IntVar(&fps, "fps", 0, "override frames per second")
	liveCmd.Flags().StringArrayVar(&setParams, "set", nil, "override parameter (name=value)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "probe the field while varying one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepParam,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "range start")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "range end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 16, "sample count")

	wireframeCmd := &cobra.Command{
		Use:   "wireframe [family]",
		Short: "project a polytope and draw or export its wireframe",
		Args:  cobra.MaximumNArgs(1),
		RunE:  wireframe,
	}
	wireframeCmd.Flags().IntVarP(&dimension, "dimension", "n", 4, "polytope dimension")
	wireframeCmd.Flags().StringVarP(&outPath, "out", "o", "", "SVG output path (empty prints to terminal)")
	wireframeCmd.Flags().StringArrayVar(&setParams, "set", nil, "plane angle (name=value, e.g. XW=0.6)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tMODE\tDIM\tSIZE")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%dx%d\n", name, cfg.Mode, cfg.Dimension, cfg.Width, cfg.Height)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [preset]",
		Short: "print the resolved scene config as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScene(args)
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
	configCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")
	configCmd.Flags().StringArrayVar(&setParams, "set", nil, "override parameter (name=value)")

	paramsCmd := &cobra.Command{
		Use:   "params [preset]",
		Short: "list tunable parameters with current values",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listParams,
	}
	paramsCmd.Flags().StringVar(&configFile, "config", "", "scene config file (yaml)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
	}

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "open the live window",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			name := "blackhole"
			if len(args) > 0 {
				name = args[0]
			}
			gui.Run(name)
		},
	}

	rootCmd.AddCommand(renderCmd, animateCmd, liveCmd, sweepCmd, wireframeCmd, listCmd, showCmd, presetsCmd, configCmd, paramsCmd, tuiCmd, guiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScene resolves the scene config: preset or default, then config
// file, then --set overrides on top.
func loadScene(args []string) (*config.Config, error) {
	var cfg *config.Config
	if len(args) > 0 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
		}
		slog.Debug("loaded preset", "name", args[0], "mode", cfg.Mode, "dimension", cfg.Dimension)
	} else {
		cfg = config.DefaultConfig()
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		slog.Debug("loaded scene file", "path", configFile, "mode", cfg.Mode)
	}

	if len(setParams) > 0 {
		overrides := map[string]string{}
		for _, kv := range setParams {
			name, value, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("malformed --set %q, want name=value", kv)
			}
			overrides[name] = value
		}
		if err := config.Apply(cfg, overrides); err != nil {
			return nil, err
		}
	}

	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	if fps > 0 {
		cfg.FPS = fps
	}
	return cfg, nil
}

func buildSettings(cfg *config.Config) (*render.Settings, error) {
	mode, err := cfg.FieldMode()
	if err != nil {
		return nil, err
	}
	level, err := quality.ParseLevel(cfg.Quality)
	if err != nil {
		return nil, err
	}
	cam := render.NewCamera()
	cam.Distance = cfg.Camera.Distance
	cam.Yaw = cfg.Camera.Yaw
	cam.Pitch = cfg.Camera.Pitch
	cam.Zoom = cfg.Camera.Zoom
	cam.FOV = cfg.Camera.FOV

	return &render.Settings{
		Width:         cfg.Width,
		Height:        cfg.Height,
		N:             cfg.Dimension,
		Angles:        cfg.AngleMap(),
		Slice:         cfg.Slice,
		Mode:          mode,
		Quality:       quality.Get(level),
		Stepper:       cfg.Stepper,
		Camera:        cam,
		TemporalCycle: cfg.TemporalCycle,
	}, nil
}

func renderFrame(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args)
	if err != nil {
		return err
	}
	s, err := buildSettings(cfg)
	if err != nil {
		return err
	}

	renderer := render.NewRenderer(nil)

	fmt.Printf("rendering %s at %dx%d, %dd...\n", cfg.Mode, cfg.Width, cfg.Height, cfg.Dimension)
	start := time.Now()
	frame, err := renderer.Render(s)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := frame.WritePNG(f, cfg.Gamma); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("wrote %s\n", outPath)
	return nil
}

func animate(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args)
	if err != nil {
		return err
	}

	level, err := quality.ParseLevel(cfg.Quality)
	if err != nil {
		return err
	}
	animator := anim.New(render.NewRenderer(nil), level)

	stats := metrics.NewFrameStats()
	animator.AddObserver(anim.ObserverFunc(func(index int, frame *render.Frame, elapsed time.Duration) {
		stats.Observe(elapsed)
	}))

	var run *storage.Run
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		run, err = st.Begin(cfg)
		if err != nil {
			return err
		}
		animator.AddObserver(anim.ObserverFunc(func(index int, frame *render.Frame, elapsed time.Duration) {
			run.AddFrame(frame)
		}))
	}

	var gifFrames []*render.Frame
	if outPath != "" {
		gifFrames = make([]*render.Frame, 0, frames)
		animator.AddObserver(anim.ObserverFunc(func(index int, frame *render.Frame, elapsed time.Duration) {
			gifFrames = append(gifFrames, frame.Clone())
		}))
	}

	var player *tui.LivePlayer
	if live {
		// Character cells pack 2x4 pixels; render at the matching size.
		player = tui.NewLivePlayer(cfg.Mode, 70, 22, cfg.Gamma, cfg.FPS)
		cfg.Width, cfg.Height = player.CanvasSize()
		player.Start()
		defer player.Stop()
		animator.AddObserver(player)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !live {
		fmt.Printf("rendering %d frames of %s at %dx%d...\n", frames, cfg.Mode, cfg.Width, cfg.Height)
	}
	result, err := animator.Run(ctx, cfg, frames)
	if err != nil && result == nil {
		return err
	}

	fmt.Printf("rendered %d frames in %v (mean %.0fms)\n",
		result.FramesRendered, result.Elapsed.Round(time.Millisecond), stats.Value())

	if run != nil {
		run.SetMetric("mean_frame_ms", stats.Value())
		run.SetMetric("fps", stats.FPS())
		id, err := run.Finish()
		if err != nil {
			return err
		}
		slog.Debug("run archived", "id", id, "dir", run.Dir())
		fmt.Printf("run id: %s\n", id)
	}

	if outPath != "" && len(gifFrames) > 0 {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		delay := 4
		if cfg.FPS > 0 {
			delay = 100 / cfg.FPS
		}
		if delay < 2 {
			delay = 2
		}
		if err := render.WriteGIF(f, gifFrames, delay, cfg.Gamma); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
	}
	return nil
}

func sweepParam(cmd *cobra.Command, args []string) error {
	var presetArgs []string
	if preset != "" {
		presetArgs = []string{preset}
	}
	cfg, err := loadScene(presetArgs)
	if err != nil {
		return err
	}

	param := args[0]
	fmt.Printf("sweeping %s over [%g, %g] in %d steps\n\n", param, sweepMin, sweepMax, sweepSteps)

	points, err := analysis.Sweep(cfg, param, sweepMin, sweepMax, sweepSteps)
	if err != nil {
		return err
	}

	escape := make([]float64, len(points))
	mean := make([]float64, len(points))
	for i, pt := range points {
		escape[i] = pt.EscapeFraction
		mean[i] = pt.MeanValue
	}

	fmt.Println(asciigraph.Plot(escape,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("escape fraction"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(mean,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("mean field value"),
	))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tESCAPE\tMEAN")
	for _, pt := range points {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.6f\n", pt.Param, pt.EscapeFraction, pt.MeanValue)
	}
	return w.Flush()
}

func wireframe(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		family = args[0]
	} else {
		family = "hypercube"
	}
	fam, err := polytope.ParseFamily(family)
	if err != nil {
		return err
	}
	p, err := polytope.Generate(fam, dimension)
	if err != nil {
		return err
	}

	angles := ndspace.AngleMap{}
	for _, kv := range setParams {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("malformed --set %q, want plane=radians", kv)
		}
		plane, err := ndspace.ParsePlane(name)
		if err != nil {
			return err
		}
		if !plane.Valid(dimension) {
			return fmt.Errorf("plane %s does not fit dimension %d", plane, dimension)
		}
		var rad float64
		if _, err := fmt.Sscanf(value, "%g", &rad); err != nil {
			return fmt.Errorf("angle %q: %w", value, err)
		}
		angles[plane] = rad
	}

	var rot ndspace.Mat
	ndspace.ComposeRotationsInto(&rot, dimension, angles)
	w := p.Wireframe(&rot, polytope.DefaultProjectionDistance)

	if outPath != "" {
		svg := export.WireframeToSVG(w, 800, 800)
		if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d vertices, %d edges)\n", outPath, len(w.Positions)/3, len(w.Edges))
		return nil
	}

	canvas := viz.NewCanvas(60, 28)
	viz.DrawWireframe(canvas, w, 1.2)
	fmt.Println(canvas.String())
	fmt.Printf("%s %dd: %d vertices, %d edges\n", family, dimension, len(w.Positions)/3, len(w.Edges))
	return nil
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
	fmt.Fprintln(w, "ID\tMODE\tDIM\tTIME\tSIZE\tFRAMES\tQUALITY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%dx%d\t%d\t%s\n",
			run.ID,
			run.Mode,
			run.Dimension,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width,
			run.Height,
			run.Frames,
			run.Quality,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func listParams(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args)
	if err != nil {
		return err
	}
	flat, err := config.Flatten(cfg)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(flat))
	for name := range flat {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, flat[name])
	}
	return w.Flush()
}
