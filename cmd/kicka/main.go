// KickaEttan resolves where dropped curling stones come to rest: off every
// other stone, off the ban zones and inside the sheet.
//
// Build:
//
//	go build -o kicka ./cmd/kicka
//
// Usage:
//
//	kicka [-config file] [-log-level level] <command> [flags]
//
// Commands: resolve, play, settle, measure, export, import, backup, serve,
// scenarios.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/piwi3910/KickaEttan/internal/engine"
	"github.com/piwi3910/KickaEttan/internal/export"
	"github.com/piwi3910/KickaEttan/internal/importer"
	"github.com/piwi3910/KickaEttan/internal/model"
	"github.com/piwi3910/KickaEttan/internal/project"
	"github.com/piwi3910/KickaEttan/internal/server"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const recentScenarioLimit = 10

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries what every command needs.
type app struct {
	cfg     model.AppConfig
	cfgPath string
	logger  zerolog.Logger
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("kicka", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		flagConfig   string
		flagLogLevel string
	)
	fs.StringVar(&flagConfig, "config", "", "config file (JSON or YAML); defaults to $KICKA_CONFIG or ~/.kicka/config.json")
	fs.StringVar(&flagLogLevel, "log-level", "", "trace, debug, info, warn or error (overrides config)")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return exitFailure
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	a := &app{
		cfg:     cfg,
		cfgPath: cfgPath,
		logger:  setupLogging(stderr, cfg.LogLevel),
		in:      stdin,
		out:     stdout,
		errOut:  stderr,
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return exitUsage
	}

	commands := map[string]func([]string) error{
		"resolve":   a.cmdResolve,
		"play":      a.cmdPlay,
		"settle":    a.cmdSettle,
		"measure":   a.cmdMeasure,
		"export":    a.cmdExport,
		"import":    a.cmdImport,
		"backup":    a.cmdBackup,
		"serve":     a.cmdServe,
		"scenarios": a.cmdScenarios,
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		fs.Usage()
		return exitUsage
	}

	if err := cmd(rest[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "%v\n", err)
			return exitUsage
		}
		a.logger.Error().Err(err).Str("command", rest[0]).Msg("command failed")
		return exitFailure
	}
	return exitOK
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: kicka [-config file] [-log-level level] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  resolve    resolve one drop against a scenario board")
	fmt.Fprintln(w, "  play       replay a scenario's drops")
	fmt.Fprintln(w, "  settle     settle every stone of a scenario board")
	fmt.Fprintln(w, "  measure    measure a position against the house and sheet lines")
	fmt.Fprintln(w, "  export     write a scenario as PDF, labels or DXF")
	fmt.Fprintln(w, "  import     build a scenario from CSV, Excel or DXF")
	fmt.Fprintln(w, "  backup     export or restore config and saved scenarios")
	fmt.Fprintln(w, "  serve      run the resolve service")
	fmt.Fprintln(w, "  scenarios  list built-in and saved scenarios")
	fmt.Fprintln(w)
	fs.PrintDefaults()
}

// setupLogging builds the console logger at the configured level.
func setupLogging(w io.Writer, level string) zerolog.Logger {
	var lvl zerolog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = zerolog.DebugLevel
	case "INFO":
		lvl = zerolog.InfoLevel
	case "WARN":
		lvl = zerolog.WarnLevel
	case "ERROR":
		lvl = zerolog.ErrorLevel
	case "TRACE":
		lvl = zerolog.TraceLevel
	default:
		lvl = zerolog.InfoLevel
	}

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}).Level(lvl).With().Timestamp().Logger()
}

func (a *app) resolver() *engine.Resolver {
	return engine.NewFromConfig(a.cfg, a.logger)
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), errUsage)
	}
	return nil
}

// loadScenario accepts a scenario file or the name of a built-in scenario.
// Files are remembered in the recent list.
func (a *app) loadScenario(ref string) (model.Scenario, error) {
	if ref == "" {
		return model.Scenario{}, fmt.Errorf("-scenario is required: %w", errUsage)
	}
	if _, err := os.Stat(ref); err == nil {
		sc, err := project.LoadScenario(ref)
		if err != nil {
			return model.Scenario{}, err
		}
		a.remember(ref)
		return sc, nil
	}
	if sc, ok := model.GetScenario(ref); ok {
		return sc, nil
	}
	return model.Scenario{}, fmt.Errorf("no scenario file or built-in scenario named %q", ref)
}

func (a *app) remember(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	project.AddRecentScenario(&a.cfg, abs, recentScenarioLimit)
	if err := project.SaveAppConfig(a.cfgPath, a.cfg); err != nil {
		a.logger.Warn().Err(err).Str("config", a.cfgPath).Msg("could not save recent scenarios")
	}
}

func (a *app) print(format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q: %w", format, errUsage)
	}
}

func (a *app) cmdResolve(args []string) error {
	fs := a.newFlagSet("resolve")
	var (
		scenario string
		team     string
		stoneID  int
		x, y     float64
		format   string
	)
	fs.StringVar(&scenario, "scenario", "", "scenario file or built-in name")
	fs.StringVar(&team, "team", string(model.TeamRed), "team dropping the stone")
	fs.IntVar(&stoneID, "stone", 0, "id of the dropped stone")
	fs.Float64Var(&x, "x", 0, "drop x in cm")
	fs.Float64Var(&y, "y", 0, "drop y in cm")
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	if err := parse(fs, args); err != nil {
		return err
	}

	sc, err := a.loadScenario(scenario)
	if err != nil {
		return err
	}
	t := model.Team(strings.ToLower(team))
	if t != model.TeamRed && t != model.TeamYellow {
		return fmt.Errorf("unknown team %q: %w", team, errUsage)
	}

	stones := model.Collidable(sc.Board.Stones(t), sc.Board.Stones(t.Opponent()))
	res := a.resolver().Resolve(stoneID, x, y, stones, sc.BanZones.For(t))
	return a.print(format, res)
}

func (a *app) cmdPlay(args []string) error {
	fs := a.newFlagSet("play")
	var scenario, format string
	fs.StringVar(&scenario, "scenario", "", "scenario file or built-in name")
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	if err := parse(fs, args); err != nil {
		return err
	}

	sc, err := a.loadScenario(scenario)
	if err != nil {
		return err
	}
	results, board := a.resolver().Play(sc)
	return a.print(format, struct {
		Results []model.DropResult `json:"results" yaml:"results"`
		Board   model.Board        `json:"board" yaml:"board"`
	}{results, board})
}

func (a *app) cmdSettle(args []string) error {
	fs := a.newFlagSet("settle")
	var scenario, format string
	fs.StringVar(&scenario, "scenario", "", "scenario file or built-in name")
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	if err := parse(fs, args); err != nil {
		return err
	}

	sc, err := a.loadScenario(scenario)
	if err != nil {
		return err
	}
	return a.print(format, a.resolver().Settle(sc.Board, sc.BanZones))
}

func (a *app) cmdMeasure(args []string) error {
	fs := a.newFlagSet("measure")
	var (
		x, y     float64
		scenario string
		format   string
	)
	fs.Float64Var(&x, "x", 0, "x in cm")
	fs.Float64Var(&y, "y", 0, "y in cm")
	fs.StringVar(&scenario, "scenario", "", "also report the gap to the nearest stone of this scenario")
	fs.StringVar(&format, "format", "json", "output format: json or yaml")
	if err := parse(fs, args); err != nil {
		return err
	}

	var stones []model.Stone
	if scenario != "" {
		sc, err := a.loadScenario(scenario)
		if err != nil {
			return err
		}
		stones = append(stones, sc.Board.Stones(model.TeamRed)...)
		stones = append(stones, sc.Board.Stones(model.TeamYellow)...)
	}
	return a.print(format, server.Measure(a.cfg.Sheet, x, y, stones))
}

func (a *app) cmdExport(args []string) error {
	fs := a.newFlagSet("export")
	var scenario, pdfPath, labelsPath, dxfPath string
	fs.StringVar(&scenario, "scenario", "", "scenario file or built-in name")
	fs.StringVar(&pdfPath, "pdf", "", "write the scenario report to this PDF")
	fs.StringVar(&labelsPath, "labels", "", "write placement cards to this PDF")
	fs.StringVar(&dxfPath, "dxf", "", "write the settled board to this DXF")
	if err := parse(fs, args); err != nil {
		return err
	}
	if pdfPath == "" && labelsPath == "" && dxfPath == "" {
		return fmt.Errorf("one of -pdf, -labels or -dxf is required: %w", errUsage)
	}

	sc, err := a.loadScenario(scenario)
	if err != nil {
		return err
	}
	r := a.resolver()
	results, board := r.Play(sc)
	board = r.Settle(board, sc.BanZones)

	if pdfPath != "" {
		if err := export.ExportPDF(pdfPath, sc, results, a.cfg.Sheet); err != nil {
			return fmt.Errorf("pdf export: %w", err)
		}
		a.logger.Info().Str("path", pdfPath).Msg("report written")
	}
	if labelsPath != "" {
		if err := export.ExportLabels(labelsPath, board, a.cfg.Sheet); err != nil {
			return fmt.Errorf("label export: %w", err)
		}
		a.logger.Info().Str("path", labelsPath).Msg("labels written")
	}
	if dxfPath != "" {
		if err := export.ExportDXF(dxfPath, board, sc.BanZones, a.cfg.Sheet); err != nil {
			return fmt.Errorf("dxf export: %w", err)
		}
		a.logger.Info().Str("path", dxfPath).Msg("drawing written")
	}
	return nil
}

func (a *app) cmdImport(args []string) error {
	fs := a.newFlagSet("import")
	var in, out, name string
	fs.StringVar(&in, "in", "", "CSV, Excel (.xlsx) or DXF file; - reads CSV from stdin")
	fs.StringVar(&out, "out", "", "scenario file to write (defaults to <output_dir>/<name>.yaml)")
	fs.StringVar(&name, "name", "", "scenario name (defaults to the input file name)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if in == "" {
		return fmt.Errorf("-in is required: %w", errUsage)
	}

	var result importer.ImportResult
	ext := strings.ToLower(filepath.Ext(in))
	switch {
	case in == "-":
		data, err := io.ReadAll(a.in)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		result = importer.ImportCSVFromReader(bytes.NewReader(data), importer.DetectCSVDelimiter(data))
		if name == "" {
			name = "stdin"
		}
	case ext == ".xlsx" || ext == ".xlsm":
		result = importer.ImportExcel(in)
	case ext == ".dxf":
		result = importer.ImportDXF(in, a.cfg.Sheet)
	default:
		result = importer.ImportCSV(in)
	}
	for _, w := range result.Warnings {
		a.logger.Warn().Str("file", in).Msg(w)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			a.logger.Error().Str("file", in).Msg(e)
		}
		return fmt.Errorf("import of %s failed with %d errors", in, len(result.Errors))
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	}
	sc := model.NewScenario(name)
	sc.Board = result.Board
	sc.BanZones = result.BanZones

	if out == "" {
		out = filepath.Join(a.cfg.OutputDir, name+".yaml")
	}
	if err := project.SaveScenario(out, sc); err != nil {
		return err
	}
	a.remember(out)
	a.logger.Info().Str("path", out).Int("stones", result.StoneCount()).Msg("scenario written")
	return nil
}

func (a *app) cmdBackup(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("backup needs export or import: %w", errUsage)
	}
	switch args[0] {
	case "export":
		return a.backupExport(args[1:])
	case "import":
		return a.backupImport(args[1:])
	default:
		return fmt.Errorf("unknown backup action %q: %w", args[0], errUsage)
	}
}

// backupExport bundles the config with every scenario saved in dir.
func (a *app) backupExport(args []string) error {
	fs := a.newFlagSet("backup export")
	var out, dir string
	fs.StringVar(&out, "out", "", "backup file to write")
	fs.StringVar(&dir, "dir", a.cfg.OutputDir, "directory holding saved scenarios")
	if err := parse(fs, args); err != nil {
		return err
	}
	if out == "" {
		return fmt.Errorf("-out is required: %w", errUsage)
	}

	paths, err := project.ListScenarios(dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}
	scenarios := make([]model.Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := project.LoadScenario(p)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", p).Msg("skipping scenario")
			continue
		}
		scenarios = append(scenarios, sc)
	}

	if err := project.ExportAllData(out, a.cfg, scenarios); err != nil {
		return err
	}
	a.logger.Info().Str("path", out).Int("scenarios", len(scenarios)).Msg("backup written")
	return nil
}

// backupImport restores the config and writes the bundled scenarios into
// dir, one file per scenario id.
func (a *app) backupImport(args []string) error {
	fs := a.newFlagSet("backup import")
	var in, dir string
	fs.StringVar(&in, "in", "", "backup file to restore")
	fs.StringVar(&dir, "dir", "", "directory for restored scenarios (defaults to the restored output_dir)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if in == "" {
		return fmt.Errorf("-in is required: %w", errUsage)
	}

	backup, err := project.ImportAllData(in)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(a.cfgPath, backup.Config); err != nil {
		return err
	}
	a.cfg = backup.Config

	if dir == "" {
		dir = a.cfg.OutputDir
	}
	for i, sc := range backup.Scenarios {
		id := sc.ID
		if id == "" {
			id = fmt.Sprintf("scenario-%d", i+1)
		}
		if err := project.SaveScenario(filepath.Join(dir, id+".yaml"), sc); err != nil {
			return err
		}
	}
	a.logger.Info().Str("path", in).Int("scenarios", len(backup.Scenarios)).Msg("backup restored")
	return nil
}

func (a *app) cmdServe(args []string) error {
	fs := a.newFlagSet("serve")
	var addr string
	fs.StringVar(&addr, "addr", a.cfg.ListenAddr, "listen address")
	if err := parse(fs, args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Addr:             addr,
		Resolver:         a.resolver(),
		DefaultBanRadius: a.cfg.DefaultBanRadius,
		Logger:           a.logger,
	})
	return srv.Run(ctx)
}

func (a *app) cmdScenarios(args []string) error {
	fs := a.newFlagSet("scenarios")
	var dir string
	fs.StringVar(&dir, "dir", a.cfg.OutputDir, "directory holding saved scenarios")
	if err := parse(fs, args); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "built-in:")
	for _, sc := range model.BuiltinScenarios() {
		fmt.Fprintf(a.out, "  %-20s %s\n", sc.Name, sc.Description)
	}

	paths, err := project.ListScenarios(dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(paths) > 0 {
		fmt.Fprintf(a.out, "saved in %s:\n", dir)
		for _, p := range paths {
			fmt.Fprintf(a.out, "  %s\n", p)
		}
	}
	if len(a.cfg.RecentScenarios) > 0 {
		fmt.Fprintln(a.out, "recent:")
		for _, p := range a.cfg.RecentScenarios {
			fmt.Fprintf(a.out, "  %s\n", p)
		}
	}
	return nil
}
