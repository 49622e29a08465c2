// Package cmd implements the CLI command structure for taskpad.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskpad/internal/config"
	"github.com/nibzard/taskpad/internal/controller"
	"github.com/nibzard/taskpad/internal/logging"
	"github.com/nibzard/taskpad/internal/storage"
	"github.com/nibzard/taskpad/internal/todo"
	"github.com/nibzard/taskpad/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskpad CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskpad", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	// No args means the interactive list
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	env := &commandEnv{cws: cws, cfg: cws.Config, stdout: stdout, stderr: stderr}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, env, remainingArgs)
	case "add":
		return addCommand(env, remainingArgs)
	case "rm", "remove":
		return rmCommand(env, remainingArgs)
	case "ls", "list":
		return lsCommand(env, remainingArgs)
	case "doctor":
		return doctorCommand(env, remainingArgs)
	case "logs", "tail":
		return logsCommand(ctx, env, remainingArgs)
	case "config":
		return configCommand(env, remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// commandEnv carries the loaded config and output streams to commands.
type commandEnv struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

// logOptions returns logger options from config. CLI commands default to
// warn level so routine info lines stay off the terminal.
func (e *commandEnv) logOptions(cli bool) logging.Options {
	opts := logging.OptionsFromConfig(e.cfg.LogLevel, e.cfg.LogFormat, e.cfg.LogTimestamps, e.cfg.LogCaller)
	if cli && e.cws.Sources["log_level"] == config.SourceDefault {
		opts.Level = log.WarnLevel
	}
	return opts
}

func (e *commandEnv) openStore() (storage.Store, error) {
	store, err := storage.Open(e.cfg.StorageBackend, e.cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", e.cfg.StorageBackend, err)
	}
	return store, nil
}

// session is a console surface wired to a started controller.
type session struct {
	store   storage.Store
	slot    *todo.Slot
	console *ui.Console
	ctrl    *controller.Controller
}

func (e *commandEnv) openSession(input string) (*session, error) {
	store, err := e.openStore()
	if err != nil {
		return nil, err
	}
	logger := logging.New(e.stderr, e.logOptions(true))
	if fsStore, ok := store.(*storage.FileStore); ok {
		for _, w := range fsStore.Warnings() {
			logger.Warn(w)
		}
	}

	slot := todo.NewSlot(store, e.cfg.StorageKey)
	console := ui.NewConsole(input, e.stderr)
	ctrl := controller.New(console, console, slot, controller.WithLogger(logger))
	ctrl.Start(console)
	return &session{store: store, slot: slot, console: console, ctrl: ctrl}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// checkSaved reports an error when the slot does not hold the controller's
// list, which happens after a failed write.
func (s *session) checkSaved() error {
	stored, err := s.slot.Load()
	if err != nil {
		return fmt.Errorf("tasks not saved: %w", err)
	}
	if !slices.Equal(stored, s.ctrl.Tasks()) {
		return errors.New("tasks not saved")
	}
	return nil
}

// tuiCommand launches the interactive list.
func tuiCommand(ctx context.Context, env *commandEnv, args []string) error {
	fs := flag.NewFlagSet("taskpad tui", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	runLog, err := logging.NewRunLogger(env.cfg.LogDir, env.cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("creating run log: %w", err)
	}
	defer runLog.Close()
	logger := runLog.Logger(env.logOptions(false))

	store, err := env.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	if fsStore, ok := store.(*storage.FileStore); ok {
		for _, w := range fsStore.Warnings() {
			logger.Warn(w)
		}
	}

	label := env.cfg.StorageBackend
	if env.cfg.StoragePath != "" {
		label += " " + env.cfg.StoragePath
	}
	model := ui.NewModel(ui.WithStoreLabel(label))
	ctrl := controller.New(model, model, todo.NewSlot(store, env.cfg.StorageKey), controller.WithLogger(logger))
	ctrl.Start(model)

	logger.Info("tui started", "key", env.cfg.StorageKey, "count", len(ctrl.Tasks()))
	err = ui.RunTUI(ctx, model)
	logger.Info("tui stopped", "count", len(ctrl.Tasks()), "err", err)
	return err
}

// addCommand adds the joined arguments as one task.
func addCommand(env *commandEnv, args []string) error {
	s, err := env.openSession(strings.Join(args, " "))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ctrl.Submit(); err != nil {
		return err
	}
	s.console.Print(env.stdout)
	return nil
}

// rmCommand removes the first task with the given text, or task number -n.
func rmCommand(env *commandEnv, args []string) error {
	fs := flag.NewFlagSet("taskpad rm", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	n := fs.Int("n", 0, "Remove task number N (1-based, as shown by ls)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	if *n == 0 && text == "" {
		return errors.New("rm needs task text or -n N")
	}
	if *n != 0 && text != "" {
		return errors.New("rm takes task text or -n N, not both")
	}

	s, err := env.openSession("")
	if err != nil {
		return err
	}
	defer s.Close()

	if *n != 0 {
		if err := s.console.RemoveAt(*n); err != nil {
			return err
		}
	} else if !s.console.RemoveText(text) {
		return fmt.Errorf("no task %q", text)
	}
	if err := s.checkSaved(); err != nil {
		return err
	}
	s.console.Print(env.stdout)
	return nil
}

// lsCommand prints the list, or the raw slot with -json.
func lsCommand(env *commandEnv, args []string) error {
	fs := flag.NewFlagSet("taskpad ls", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	asJSON := fs.Bool("json", false, "Print the stored JSON array")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *asJSON {
		store, err := env.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		raw, ok, err := todo.NewSlot(store, env.cfg.StorageKey).Raw()
		if err != nil {
			return err
		}
		if !ok {
			raw = "[]"
		}
		fmt.Fprintln(env.stdout, raw)
		return nil
	}

	s, err := env.openSession("")
	if err != nil {
		return err
	}
	defer s.Close()
	s.console.Print(env.stdout)
	return nil
}

// doctorCommand checks config, the store and the stored list.
func doctorCommand(env *commandEnv, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	w := env.stdout
	cfg := env.cfg

	fmt.Fprintln(w, "Taskpad Doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if file := env.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(w, "  ✅ File: %s\n", file)
	} else {
		fmt.Fprintln(w, "  ✅ File: (none, using defaults)")
	}
	fmt.Fprintf(w, "  ✅ Backend: %s\n", cfg.StorageBackend)
	fmt.Fprintf(w, "  ✅ Key: %s\n", cfg.StorageKey)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Store:")
	if cfg.StoragePath != "" {
		fmt.Fprintf(w, "  Path: %s\n", cfg.StoragePath)
	}
	store, err := env.openStore()
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "⚠️  Some checks failed.")
		return fmt.Errorf("doctor checks failed")
	}
	defer store.Close()
	fmt.Fprintln(w, "  ✅ Opened")
	if fsStore, ok := store.(*storage.FileStore); ok {
		for _, warning := range fsStore.Warnings() {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
			allOK = false
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tasks:")
	raw, ok, err := todo.NewSlot(store, cfg.StorageKey).Raw()
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		allOK = false
	case !ok:
		fmt.Fprintln(w, "  ✅ Nothing saved yet")
	default:
		result := todo.Validate([]byte(raw))
		if result.Valid {
			fmt.Fprintf(w, "  ✅ %d task(s)\n", result.Count)
		} else {
			fmt.Fprintln(w, "  ❌ Saved list is invalid and will load as empty:")
			for _, verr := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", verr)
			}
			allOK = false
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// logsCommand prints the latest run log.
func logsCommand(ctx context.Context, env *commandEnv, args []string) error {
	fs := flag.NewFlagSet("taskpad logs", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logDir, err := logging.FindLogDir(env.cfg.LogDir, env.cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(env.stdout, "No log files found.")
		return nil
	}

	fmt.Fprintf(env.stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(env.stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(env.stdout)

	if err := logging.TailLog(env.stdout, logPath, *n, *follow, ctx.Done()); err != nil {
		return err
	}
	if *follow {
		return ctx.Err()
	}
	return nil
}

// configCommand prints the effective config and where each value came from.
func configCommand(env *commandEnv, args []string) error {
	fs := flag.NewFlagSet("taskpad config", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(env.stdout, config.ExampleConfig())
		return nil
	}

	for _, file := range env.cfg.Files {
		fmt.Fprintf(env.stdout, "# read %s\n", file)
	}
	for _, field := range config.Fields() {
		fmt.Fprintf(env.stdout, "%-16s = %-40q # %s\n", field, env.cfg.Get(field), env.cws.Sources[field])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskpad version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskpad - a small to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskpad [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui              Interactive list (default command)")
	fmt.Fprintln(w, "  add <text...>    Add a task")
	fmt.Fprintln(w, "  rm <text>        Remove the first task with this text")
	fmt.Fprintln(w, "  rm -n N          Remove task number N")
	fmt.Fprintln(w, "  ls [-json]       List tasks")
	fmt.Fprintln(w, "  doctor           Check config, store and saved tasks")
	fmt.Fprintln(w, "  logs [-n N] [-f] Show the latest TUI run log")
	fmt.Fprintln(w, "  config [-example] Show effective config")
	fmt.Fprintln(w, "  version          Show version")
	fmt.Fprintln(w, "  help             Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
