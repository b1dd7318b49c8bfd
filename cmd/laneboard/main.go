package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/hylla/laneboard/internal/adapters/seedfile"
	"github.com/hylla/laneboard/internal/adapters/server"
	"github.com/hylla/laneboard/internal/adapters/server/common"
	"github.com/hylla/laneboard/internal/adapters/storage/sqlite"
	"github.com/hylla/laneboard/internal/app"
	"github.com/hylla/laneboard/internal/board"
	"github.com/hylla/laneboard/internal/config"
	"github.com/hylla/laneboard/internal/platform"
	"github.com/hylla/laneboard/internal/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

// program is the part of a bubbletea program the CLI drives.
type program interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

func main() {
	// fang reports the error on stderr.
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run builds the command tree and executes args against it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if args == nil {
		// cobra reads os.Args when args is nil.
		args = []string{}
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return fang.Execute(ctx, root, fang.WithVersion(version))
}

// cli carries persistent flag values shared by every command.
type cli struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	seedPath   string
	dbPath     string
	appName    string
	devMode    bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("LANEBOARD_DEV_MODE"); ok {
		defaultDevMode = envDev
	}
	defaultAppName := platform.DefaultAppName
	if envApp := strings.TrimSpace(os.Getenv("LANEBOARD_APP_NAME")); envApp != "" {
		defaultAppName = envApp
	}

	root := &cobra.Command{
		Use:   "laneboard",
		Short: "A drag-and-drop kanban board for the terminal",
		Long: `laneboard opens a kanban board of lanes and items. Drag items between lanes
and lanes across the board with the mouse, or serve the same board over HTTP and MCP.`,
		Example: `  laneboard
  laneboard --seed board.toml
  laneboard serve --bind 127.0.0.1:5437
  laneboard show --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runTUI(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to config TOML")
	flags.StringVar(&c.seedPath, "seed", "", "board seed (.toml, .yaml, .yml or sqlite .db)")
	flags.StringVar(&c.dbPath, "db", "", "path to sqlite database")
	flags.StringVar(&c.appName, "app", defaultAppName, "application name for config/data path resolution")
	flags.BoolVar(&c.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		c.serveCommand(),
		c.showCommand(),
		c.importCommand(),
		c.pathsCommand(),
		c.versionCommand(),
	)
	return root
}

// session is the resolved runtime state for one command.
type session struct {
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
}

// startSession resolves paths, config and logging for command.
func (c *cli) startSession(command string) (*session, error) {
	paths, err := c.paths()
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(c.configPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("LANEBOARD_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}
	dbPath := strings.TrimSpace(c.dbPath)
	dbOverridden := dbPath != ""
	if !dbOverridden {
		if envPath := strings.TrimSpace(os.Getenv("LANEBOARD_DB_PATH")); envPath != "" {
			dbPath = envPath
			dbOverridden = true
		} else {
			dbPath = paths.DBPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(dbPath))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if dbOverridden {
		cfg.Database.Path = dbPath
	}

	logger, err := newRuntimeLogger(c.stderr, c.appName, c.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// Runtime logs would tear the alt screen; the dev file still gets them.
		logger.SetConsoleEnabled(false)
	}

	logger.Info("startup configuration resolved", "app", c.appName, "dev_mode", c.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}
	return &session{
		paths:      paths,
		configPath: configPath,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// close releases the dev-file sink.
func (s *session) close(stderr io.Writer) {
	if closeErr := s.logger.Close(); closeErr != nil && s.logger.shouldLogToSink(s.logger.consoleSink) {
		_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
	}
}

func (c *cli) paths() (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: c.appName,
		DevMode: c.devMode,
	})
}

// seedSource is where a session's board comes from. An empty path is the demo board.
type seedSource struct {
	path   string
	sqlite bool
}

// resolveSeedSource applies seed precedence: --seed, LANEBOARD_SEED, [seed] path,
// the platform board file, then the sqlite database when either exists on disk.
func (c *cli) resolveSeedSource(s *session) seedSource {
	for _, explicit := range []string{
		c.seedPath,
		os.Getenv("LANEBOARD_SEED"),
		s.cfg.Seed.Path,
	} {
		if path := strings.TrimSpace(explicit); path != "" {
			return seedSource{path: path, sqlite: isSQLitePath(path)}
		}
	}
	if fileExists(s.paths.SeedPath) {
		return seedSource{path: s.paths.SeedPath}
	}
	if fileExists(s.cfg.Database.Path) {
		return seedSource{path: s.cfg.Database.Path, sqlite: true}
	}
	return seedSource{}
}

// openBoard loads the session's seed into a fresh service. A sqlite seed store
// is closed once the seed is read.
func (c *cli) openBoard(ctx context.Context, s *session) (*app.Service, error) {
	opts := []app.ServiceOption{
		app.WithLogger(s.logger),
		app.WithIDGenerator(uuid.NewString),
		app.WithInvariantChecks(c.devMode),
	}

	source := c.resolveSeedSource(s)
	switch {
	case source.path == "":
		s.logger.Info("opening demo board")
		return app.OpenBoard(ctx, nil, opts...)
	case source.sqlite:
		s.logger.Info("opening sqlite repository", "db_path", source.path)
		repo, err := sqlite.Open(source.path)
		if err != nil {
			s.logger.Error("sqlite open failed", "db_path", source.path, "err", err)
			return nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				s.logger.Warn("sqlite close failed", "db_path", source.path, "err", closeErr)
			}
		}()
		return app.OpenBoard(ctx, repo, opts...)
	default:
		file, err := seedfile.Open(source.path)
		if err != nil {
			return nil, fmt.Errorf("open seed file: %w", err)
		}
		s.logger.Info("loading seed file", "path", file.Path())
		return app.OpenBoard(ctx, file, opts...)
	}
}

func (c *cli) runTUI(ctx context.Context) error {
	s, err := c.startSession("tui")
	if err != nil {
		return err
	}
	defer s.close(c.stderr)

	svc, err := c.openBoard(ctx, s)
	if err != nil {
		s.logger.Error("board open failed", "err", err)
		return err
	}

	logger := s.logger
	logger.Info("command flow start", "command", "tui")
	m := tui.NewModel(svc, tuiOptions(s.cfg)...)
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// tuiOptions maps config sections onto model options.
func tuiOptions(cfg config.Config) []tui.Option {
	return []tui.Option{
		tui.WithConfirmDelete(cfg.TUI.ConfirmDelete),
		tui.WithShowItemIDs(cfg.TUI.ShowItemIDs),
		tui.WithCardWidth(cfg.TUI.CardWidth),
		tui.WithKeyConfig(tui.KeyConfig{
			DeleteLane: cfg.Keys.DeleteLane,
			RenameLane: cfg.Keys.RenameLane,
			CopyBoard:  cfg.Keys.CopyBoard,
		}),
	}
}

func (c *cli) serveCommand() *cobra.Command {
	var bind, apiEndpoint, mcpEndpoint string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP and MCP",
		Long: `Serve one in-memory board over a REST API and an MCP streamable HTTP endpoint.
Flags override the [server] config section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.startSession("serve")
			if err != nil {
				return err
			}
			defer s.close(c.stderr)

			svc, err := c.openBoard(cmd.Context(), s)
			if err != nil {
				s.logger.Error("board open failed", "err", err)
				return err
			}

			cfg := server.Config{
				HTTPBind:      firstNonEmpty(bind, s.cfg.Server.HTTPBind),
				APIEndpoint:   firstNonEmpty(apiEndpoint, s.cfg.Server.APIEndpoint),
				MCPEndpoint:   firstNonEmpty(mcpEndpoint, s.cfg.Server.MCPEndpoint),
				ServerName:    c.appName,
				ServerVersion: version,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s.logger.Info("command flow start", "command", "serve", "bind", cfg.HTTPBind)
			err = server.Run(ctx, cfg, server.Dependencies{
				Board:  common.NewAppServiceAdapter(svc),
				Logger: s.logger,
			})
			if err != nil {
				s.logger.Error("command flow failed", "command", "serve", "err", err)
				return fmt.Errorf("run serve command: %w", err)
			}
			s.logger.Info("command flow complete", "command", "serve")
			return nil
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "listen address (default from config)")
	cmd.Flags().StringVar(&apiEndpoint, "api", "", "REST API base path (default from config)")
	cmd.Flags().StringVar(&mcpEndpoint, "mcp", "", "MCP endpoint path (default from config)")
	return cmd
}

// showFormats lists the accepted show --format values.
var showFormats = []string{"table", "markdown", "json", "toml", "yaml"}

func (c *cli) showCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		Example: `  laneboard show
  laneboard show --format yaml > board.yaml
  laneboard show --seed board.toml --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if !isShowFormat(format) {
				return fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(showFormats, ", "))
			}

			s, err := c.startSession("show")
			if err != nil {
				return err
			}
			defer s.close(c.stderr)

			ctx := app.WithSource(cmd.Context(), app.SourceCLI)
			svc, err := c.openBoard(ctx, s)
			if err != nil {
				s.logger.Error("board open failed", "err", err)
				return err
			}
			res, err := svc.Board(ctx)
			if err != nil {
				return fmt.Errorf("read board: %w", err)
			}
			if err := writeBoard(c.stdout, res.Board, format); err != nil {
				s.logger.Error("command flow failed", "command", "show", "err", err)
				return fmt.Errorf("run show command: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: "+strings.Join(showFormats, "|"))
	return cmd
}

func isShowFormat(format string) bool {
	for _, candidate := range showFormats {
		if candidate == format {
			return true
		}
	}
	return false
}

// writeBoard renders snap to w in format.
func writeBoard(w io.Writer, snap board.Snapshot, format string) error {
	switch format {
	case "markdown":
		_, err := io.WriteString(w, tui.BoardMarkdown(snap))
		return err
	case "json":
		encoded, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode board json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", encoded)
		return err
	case "toml":
		return seedfile.Encode(w, snap.Seed(), seedfile.FormatTOML)
	case "yaml":
		return seedfile.Encode(w, snap.Seed(), seedfile.FormatYAML)
	default:
		_, err := fmt.Fprintln(w, boardTable(snap))
		return err
	}
}

// boardTable lays the board out one row per item, lanes in board order.
func boardTable(snap board.Snapshot) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("LANE", "ID", "ITEM").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, lane := range snap.Lanes {
		items := snap.ItemsInLane(lane.ID)
		label := fmt.Sprintf("%s (%d)", lane.Title, lane.ID)
		if len(items) == 0 {
			t.Row(label, "", "-")
			continue
		}
		for _, item := range items {
			t.Row(label, string(item.ID), item.Title)
		}
	}
	return t.String()
}

func (c *cli) importCommand() *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the sqlite board with a seed file",
		Example: `  laneboard import --in board.toml
  laneboard import --in board.yaml --db ./board.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return errors.New("--in is required")
			}

			s, err := c.startSession("import")
			if err != nil {
				return err
			}
			defer s.close(c.stderr)

			s.logger.Info("command flow start", "command", "import", "in", inPath)
			if err := importSeed(cmd.Context(), s, inPath); err != nil {
				s.logger.Error("command flow failed", "command", "import", "err", err)
				return fmt.Errorf("run import command: %w", err)
			}
			s.logger.Info("command flow complete", "command", "import", "db_path", s.cfg.Database.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input seed file (.toml, .yaml, .yml)")
	return cmd
}

// importSeed decodes inPath and rewrites the session database with it.
func importSeed(ctx context.Context, s *session, inPath string) error {
	file, err := seedfile.Open(inPath)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	seed, err := file.LoadSeed(ctx)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}

	s.logger.Info("opening sqlite repository", "db_path", s.cfg.Database.Path)
	repo, err := sqlite.Open(s.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open sqlite repository: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			s.logger.Warn("sqlite close failed", "db_path", s.cfg.Database.Path, "err", closeErr)
		}
	}()

	if err := repo.ReplaceSeed(ctx, seed); err != nil {
		return fmt.Errorf("replace stored board: %w", err)
	}
	s.logger.Info("seed imported", "lanes", len(seed.Lanes), "items", len(seed.Items))
	return nil
}

func (c *cli) pathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			paths, err := c.paths()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.stdout, "app: %s\n", c.appName)
			_, _ = fmt.Fprintf(c.stdout, "dev_mode: %t\n", c.devMode)
			_, _ = fmt.Fprintf(c.stdout, "config: %s\n", paths.ConfigPath)
			_, _ = fmt.Fprintf(c.stdout, "seed: %s\n", paths.SeedPath)
			_, _ = fmt.Fprintf(c.stdout, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(c.stdout, "db: %s\n", paths.DBPath)
			return nil
		},
	}
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the laneboard version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(c.stdout, "laneboard %s\n", version)
		},
	}
}

// parseBoolEnv reads a boolean env var. ok is false when unset or malformed.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	default:
		return false
	}
}

func fileExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
