package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/jsamuelsen/quotebox/internal/adapters/display"
	"github.com/jsamuelsen/quotebox/internal/daemon"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

// newCLIApp creates the CLI application with all commands. Quote and
// settings output goes to stdout; logs go to stderr.
func newCLIApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:      "quotebox",
		Usage:     "Show an inspirational quote at set times of day",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				EnvVars: []string{"APP_ENVIRONMENT"},
				Usage:   "Config profile, loads configs/<profile>.yaml",
			},
			&cli.StringFlag{
				Name:  "config-dir",
				Value: "configs",
				Usage: "Directory holding base.yaml and profile files",
			},
		},
		Commands: []*cli.Command{
			showCmd(),
			checkCmd(),
			statusCmd(),
			settingsCmd(),
			daemonCmd(),
			serveCmd(),
		},
	}
	// errors are returned to main, which owns the exit code
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}

	return app
}

// action wires the components for a command, runs fn and flushes telemetry.
func action(fn func(ctx context.Context, c *cli.Context, comp *components) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, comp, err := bootstrap(c.Context, bootstrapOptions{
			Profile:   c.String("profile"),
			ConfigDir: c.String("config-dir"),
			Stdout:    c.App.Writer,
			Stderr:    c.App.ErrWriter,
			Command:   commandName(c),
		})
		if err != nil {
			return err
		}
		defer comp.Close(context.WithoutCancel(ctx))

		return fn(ctx, c, comp)
	}
}

// commandName returns the command path without the app name, e.g.
// "settings set".
func commandName(c *cli.Context) string {
	var names []string
	for _, ctx := range c.Lineage() {
		if ctx.Command == nil || ctx.Command.Name == "" || ctx.Command.Name == c.App.Name {
			continue
		}
		names = append([]string{ctx.Command.Name}, names...)
	}

	return strings.Join(names, " ")
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func showCmd() *cli.Command {
	return &cli.Command{
		Name:  display.ShowCommand,
		Usage: "Print a quote for the saved or given category",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Override the saved category"},
			&cli.BoolFlag{Name: "json", Usage: "Print JSON"},
			&cli.BoolFlag{Name: "search", Usage: "Include a web search link for the quote"},
		},
		Action: action(func(ctx context.Context, c *cli.Context, comp *components) error {
			settings := comp.settings.Load(ctx)

			category := settings.Category
			if name := c.String("category"); name != "" {
				parsed, err := domain.ParseCategory(name)
				if err != nil {
					return err
				}
				category = parsed
			}

			sel := comp.quotes.Select(ctx, category)

			format := display.FormatText
			if c.Bool("json") {
				format = display.FormatJSON
			}

			return display.NewPrinter(c.App.Writer, format).Print(display.NewView(sel, settings, c.Bool("search")))
		}),
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Show a quote if a time window is due and not yet shown today",
		Action: action(func(ctx context.Context, _ *cli.Context, comp *components) error {
			decision, err := comp.schedule.Check(ctx)
			if err != nil {
				return err
			}

			if !decision.Show {
				comp.logger.InfoContext(ctx, "nothing to show", slog.String("date", decision.Date))
			}

			return nil
		}),
	}
}

func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Print each window and when it last fired, without changing anything",
		Action: action(func(ctx context.Context, c *cli.Context, comp *components) error {
			return writeJSON(c.App.Writer, comp.schedule.Status(ctx))
		}),
	}
}

func settingsCmd() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Read or change the saved settings",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print all settings, or one by key",
				ArgsUsage: "[key]",
				Action: action(func(ctx context.Context, c *cli.Context, comp *components) error {
					settings := comp.settings.Load(ctx)
					if c.NArg() == 0 {
						return writeJSON(c.App.Writer, settings)
					}

					value, err := settingValue(settings, c.Args().First())
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(c.App.Writer, value)

					return err
				}),
			},
			{
				Name:      "set",
				Usage:     "Change one setting",
				ArgsUsage: "<key> <value>",
				Action: action(func(ctx context.Context, c *cli.Context, comp *components) error {
					if c.NArg() != 2 {
						return fmt.Errorf("usage: settings set <key> <value>")
					}

					comp.settings.Load(ctx)
					settings, err := comp.settings.Set(ctx, c.Args().Get(0), c.Args().Get(1))
					if err != nil {
						return err
					}

					return writeJSON(c.App.Writer, settings)
				}),
			},
			{
				Name:  "toggle-theme",
				Usage: "Switch between light and dark",
				Action: action(func(ctx context.Context, c *cli.Context, comp *components) error {
					comp.settings.Load(ctx)
					return writeJSON(c.App.Writer, comp.settings.ToggleTheme(ctx))
				}),
			},
		},
	}
}

func daemonCmd() *cli.Command {
	return &cli.Command{
		Name:  "daemon",
		Usage: "Run the schedule check every daemon.interval until interrupted",
		Action: action(func(ctx context.Context, _ *cli.Context, comp *components) error {
			ctx, stop := signalContext(ctx)
			defer stop()

			scheduler, err := daemon.NewScheduler(daemon.Config{
				Interval:   comp.cfg.Daemon.Interval,
				RunOnStart: comp.cfg.Daemon.RunOnStart,
				Checker:    comp.schedule,
				Logger:     comp.logger,
			})
			if err != nil {
				return err
			}

			return scheduler.Run(ctx)
		}),
	}
}

// settingValue returns one setting by its JSON key.
func settingValue(s domain.Settings, key string) (string, error) {
	switch key {
	case "timerDuration":
		return fmt.Sprint(s.TimerDuration), nil
	case "position":
		return string(s.Position), nil
	case "fontSize":
		return string(s.FontSize), nil
	case "category":
		return string(s.Category), nil
	case "theme":
		return string(s.Theme), nil
	default:
		return "", domain.NewNotFoundError("setting", key)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
