package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"feedlinker/internal/config"
	"feedlinker/internal/registry"
	"feedlinker/internal/source"
	"feedlinker/internal/store"

	"github.com/urfave/cli/v2"
)

type app struct {
	reg *registry.Registry
	cfg config.Config
	log *slog.Logger
}

func newApp(stdout, stderr io.Writer) *cli.App {
	a := &app{}

	return &cli.App{
		Name:  "feedctl",
		Usage: "Manage the feed registry without the bot",
		Description: `Derives RSSHub feed URLs for Telegram channels, YouTube channels,
Threads profiles and Substack newsletters, keeps them in the same
store the bot uses and exports them as OPML.

Flags can be set via the same environment variables as the bot, e.g.:

--backend => STORE_BACKEND=sqlite
--path => STORE_PATH=feeds.sqlite`,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Value:   store.BackendJSON,
				Usage:   "Store backend: json, text or sqlite",
				EnvVars: []string{"STORE_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "Store location, defaults depend on the backend",
				EnvVars: []string{"STORE_PATH"},
			},
			&cli.StringFlag{
				Name:    "rsshub",
				Value:   source.DefaultBaseURL,
				Usage:   "RSSHub base URL",
				EnvVars: []string{"RSSHUB_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "title",
				Usage:   "OPML document title",
				EnvVars: []string{"OPML_TITLE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level: debug, info, warn or error",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(ctx *cli.Context) error {
			a.cfg = config.Config{
				StoreBackend:  ctx.String("backend"),
				StorePath:     ctx.String("path"),
				RSSHubBaseURL: ctx.String("rsshub"),
				OPMLTitle:     ctx.String("title"),
				LogLevel:      ctx.String("log-level"),
			}
			a.cfg.Normalize()

			level, err := a.cfg.SlogLevel()
			if err != nil {
				return err
			}
			a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			deriver := source.NewDeriver(a.cfg.RSSHubBaseURL)

			s, err := store.Open(ctx.Context, a.cfg.StoreBackend, a.cfg.StorePath, deriver, a.log)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}

			a.reg = registry.New(s, deriver, a.cfg.OPMLTitle, a.log)

			return nil
		},
		After: func(*cli.Context) error {
			if a.reg == nil {
				return nil
			}
			return a.reg.Close()
		},
		Commands: []*cli.Command{
			a.addCmd(),
			a.explicitCmd("youtube", "<channel_id|url>", "Derive a YouTube channel feed", (*registry.Registry).AddYouTube),
			a.explicitCmd("thread", "<username>", "Derive a Threads profile feed", (*registry.Registry).AddThreads),
			a.explicitCmd("newsletter", "<url>", "Derive a Substack newsletter feed", (*registry.Registry).AddNewsletter),
			a.listCmd(),
			a.exportCmd(),
		},
	}
}

func (a *app) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Derive and store a feed from free text",
		ArgsUsage: "<channel|youtube @handle url|threads url>",
		Action: func(ctx *cli.Context) error {
			res, err := a.reg.AddText(ctx.Context, strings.Join(ctx.Args().Slice(), " "))
			return a.printResult(ctx, res, err)
		},
	}
}

type explicitFunc func(*registry.Registry, context.Context, string) (registry.Result, error)

func (a *app) explicitCmd(name, argsUsage, usage string, fn explicitFunc) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: argsUsage,
		Action: func(ctx *cli.Context) error {
			res, err := fn(a.reg, ctx.Context, ctx.Args().First())
			return a.printResult(ctx, res, err)
		},
	}
}

func (a *app) listCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List stored feeds in stored order",
		Action: func(ctx *cli.Context) error {
			records, err := a.reg.List(ctx.Context)
			if err != nil {
				return err
			}

			for _, r := range records {
				fmt.Fprintf(ctx.App.Writer, "%s\t%s\n", r.Title, r.XMLURL)
			}

			return nil
		},
	}
}

func (a *app) exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stored feeds as OPML",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "Target file, - for stdout",
			},
		},
		Action: func(ctx *cli.Context) error {
			output := ctx.String("output")

			if output != "-" {
				count, err := a.reg.ExportFile(ctx.Context, output)
				if err != nil {
					return err
				}

				fmt.Fprintf(ctx.App.ErrWriter, "exported %d feeds to %s\n", count, output)
				return nil
			}

			doc, _, err := a.reg.Export(ctx.Context)
			if err != nil {
				return err
			}

			_, err = ctx.App.Writer.Write(doc)
			return err
		},
	}
}

func (a *app) printResult(ctx *cli.Context, res registry.Result, err error) error {
	if errors.Is(err, registry.ErrMissingArgument) {
		return fmt.Errorf("%w, usage: %s %s %s", err, ctx.App.Name, ctx.Command.Name, ctx.Command.ArgsUsage)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "%s\t%s\t%s\n", res.Outcome, res.Record.Title, res.Record.XMLURL)

	return nil
}
