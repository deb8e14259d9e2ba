package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/commands"
	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/controller"
	"github.com/sandeepkv93/todo/internal/logging"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/update"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "todo failed: %v\n", err)
		os.Exit(1)
	}
}

// run starts the TUI, or executes a single command when positional
// arguments follow the flags.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, rest, err := config.Load(args)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.NewFromConfig(logFile, cfg.LogLevel, cfg.LogFormat)

	store, err := storage.Open(cfg.Storage())
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Debug("store opened", "backend", cfg.StoreBackend, "path", cfg.StorePath)

	todos, err := controller.New(ctx, store,
		controller.WithLogger(logger),
		controller.WithStrictLoad(cfg.StrictLoad),
	)
	if err != nil {
		return err
	}
	defer todos.Close()

	savedAt, saved, err := storage.LastSaved(ctx, store, storage.TodosKey)
	if err != nil {
		logger.Warn("read last saved time", "err", err)
	} else if saved {
		logger.Info("list last saved", "at", savedAt)
	}

	if len(rest) > 0 {
		cmd, err := commands.ParseArgs(rest)
		if err != nil {
			return err
		}
		res, err := commands.Execute(cmd, commands.ListHandlers(todos))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, res.Message)
		return nil
	}

	model := update.NewModel(todos, logger)
	if saved {
		model.Status = update.StatusBar{Text: "last saved " + savedAt.Local().Format("2006-01-02 15:04")}
	}
	program := tea.NewProgram(model, tea.WithContext(ctx))
	_, err = program.Run()
	return err
}
