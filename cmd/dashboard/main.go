package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/library-dashboard/internal/clock"
	"github.com/DoyleJ11/library-dashboard/internal/config"
	"github.com/DoyleJ11/library-dashboard/internal/fetch"
	"github.com/DoyleJ11/library-dashboard/internal/httpapi"
	"github.com/DoyleJ11/library-dashboard/internal/live"
	"github.com/DoyleJ11/library-dashboard/internal/logging"
	"github.com/DoyleJ11/library-dashboard/internal/refresh"
	"github.com/DoyleJ11/library-dashboard/internal/view"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "dashboard:", err)
		os.Exit(1)
	}
}

type options struct {
	configFile string
	print      bool
	noColor    bool
}

func loadConfig(args []string) (config.Config, options, error) {
	var opts options
	cfg := config.Default()

	fs := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	fs.StringVarP(&opts.configFile, "config", "c", "", "YAML config file")
	fs.BoolVar(&opts.print, "print", false, "fetch once, print the library and exit")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colour in --print output")
	cfg.AddFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, opts, err
	}

	// Flags win over file and env, so remember what was passed and replay it.
	passed := map[string]string{}
	fs.Visit(func(f *pflag.Flag) { passed[f.Name] = f.Value.String() })

	cfg = config.Default()
	if opts.configFile != "" {
		if err := cfg.LoadFile(opts.configFile); err != nil {
			return cfg, opts, err
		}
	}
	if err := cfg.LoadEnv(".env"); err != nil {
		return cfg, opts, err
	}
	for name, v := range passed {
		if err := fs.Set(name, v); err != nil {
			return cfg, opts, err
		}
	}
	return cfg, opts, cfg.Validate()
}

func run(args []string) error {
	cfg, opts, err := loadConfig(args)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	client, err := fetch.NewHTTPClient(cfg.FetchTimeout)
	if err != nil {
		return err
	}
	fetcher := fetch.NewHTTPFetcher(cfg.Endpoint, client)
	renderer, err := view.NewRenderer(clock.Real(), loc)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.print {
		snap, err := fetcher.Fetch(ctx)
		if err != nil {
			return err
		}
		return view.WriteText(os.Stdout, renderer.Build(snap), opts.noColor)
	}

	model := live.New(log.Named("live"))
	loop := refresh.New(fetcher, model,
		refresh.WithPeriod(cfg.Period),
		refresh.WithLogger(log.Named("refresh")),
	)

	// The first page served should already have data when the backend is up.
	if err := loop.InitialLoad(ctx); err != nil {
		log.Warn("initial load failed, starting empty", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           httpapi.SetupRoutes(model, renderer, loop.Status(), log.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Poll(gctx)
	})
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Listen), zap.String("endpoint", cfg.Endpoint))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// Closing the model ends every /ws stream before the server drains.
		model.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Info("stopped")
	return err
}
