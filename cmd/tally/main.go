// Package main provides the tally binary entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/nissyi-gh/tally/internal/command"
	"github.com/nissyi-gh/tally/internal/config"
	"github.com/nissyi-gh/tally/internal/importer"
	"github.com/nissyi-gh/tally/internal/manager"
	"github.com/nissyi-gh/tally/internal/prompt"
	"github.com/nissyi-gh/tally/internal/store"
	"github.com/nissyi-gh/tally/internal/ui"
	"github.com/spf13/cobra"
)

// Version is printed by the version subcommand.
const Version = "0.3.0"

type options struct {
	configPath string
	dataPath   string
	backend    string
	logLevel   string
	plain      bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "tally",
		Short:         "A personal task tracker driven by short commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, &opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tally/config.yaml)")
	flags.StringVar(&opts.dataPath, "data", "", "task data file (default $XDG_DATA_HOME/tally/tasks.txt)")
	flags.StringVar(&opts.backend, "backend", "", "storage backend: text or sqlite")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "read commands line by line instead of starting the TUI")

	cmd.AddCommand(importCmd(&opts), promptCmd(&opts), versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tally %s\n", Version)
		},
	}
}

func importCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Add the tasks listed in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			return withManager(opts, func(m *manager.Manager, logger *slog.Logger) error {
				n, err := importer.Import(m, string(data))
				if n > 0 {
					logger.Info("Imported tasks", slog.String("file", args[0]), slog.Int("count", n))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s).\n", n)
				return err
			})
		},
	}
}

func promptCmd(opts *options) *cobra.Command {
	var copyOut bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print an assistant prompt that answers in the import format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(opts, func(m *manager.Manager, _ *slog.Logger) error {
				text := prompt.GenerateFromTasks(m.List())
				if copyOut {
					if err := clipboard.WriteAll(text); err != nil {
						return fmt.Errorf("copy to clipboard: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Prompt copied to the clipboard.")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&copyOut, "copy", false, "copy the prompt to the clipboard instead of printing it")
	return cmd
}

func runSession(cmd *cobra.Command, opts *options) error {
	return withManager(opts, func(m *manager.Manager, _ *slog.Logger) error {
		interp := command.New(m)
		if opts.plain || !isatty.IsTerminal(os.Stdin.Fd()) {
			return ui.RunPlain(cmd.InOrStdin(), cmd.OutOrStdout(), interp)
		}
		p := tea.NewProgram(ui.NewModel(m, interp), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run program: %w", err)
		}
		return nil
	})
}

// withManager loads config, opens logging and the store, and hands a ready
// manager to fn.
func withManager(opts *options, fn func(*manager.Manager, *slog.Logger) error) error {
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	loader := config.NewLoader(bootLogger)
	loader.Path = opts.configPath
	cfg, err := loader.Load(&config.Config{
		Store: config.StoreConfig{Backend: opts.backend, Path: opts.dataPath},
		Log:   config.LogConfig{Level: opts.logLevel},
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := store.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	return fn(manager.New(s, logger), logger)
}

func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	path, err := cfg.LogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}
