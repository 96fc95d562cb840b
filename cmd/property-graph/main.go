package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/diwise/property-graph/internal/pkg/application/reduction"
	"github.com/diwise/property-graph/internal/pkg/application/resolvers"
	"github.com/diwise/property-graph/internal/pkg/infrastructure/router"
	"github.com/diwise/property-graph/internal/pkg/infrastructure/sources"
	"github.com/diwise/property-graph/internal/pkg/presentation/api"
	"github.com/diwise/property-graph/pkg/enums"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/go-chi/chi/v5"
)

const serviceName string = "property-graph"

func defaultFlags() FlagMap {
	return FlagMap{
		listenAddress: "",
		servicePort:   "8080",

		configPath:   "/opt/diwise/config/sources.yaml",
		policiesPath: "/opt/diwise/config/authz.rego",

		logFormat: "json",

		strictSingular:      "false",
		maxConcurrentFields: strconv.Itoa(resolvers.DefaultMaxConcurrentFields),
	}
}

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	ctx, logger, cleanup := o11y.Init(ctx, serviceName, serviceVersion, flags[logFormat])
	defer cleanup()

	cfg, err := newAppConfig(flags)
	if err != nil {
		logger.Error("failed to open configuration files", "err", err.Error())
		os.Exit(1)
	}

	app, err := initialize(ctx, flags, cfg)
	cfg.Close()
	if err != nil {
		logger.Error("failed to initialize service", "err", err.Error())
		os.Exit(1)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.Run(ctx)
	if err != nil {
		logger.Error("service stopped", "err", err.Error())
		os.Exit(1)
	}
}

type App struct {
	addr       string
	router     *chi.Mux
	federation *sources.Federation
}

func initialize(ctx context.Context, flags FlagMap, cfg *AppConfig) (*App, error) {
	sourcesConfig, err := sources.LoadConfiguration(cfg.sourcesConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources configuration: %w", err)
	}

	federation, err := sources.New(ctx, *sourcesConfig)
	if err != nil {
		return nil, err
	}

	tables := enums.Default()
	resolver := resolvers.New(federation, reduction.New(tables), resolverOptions(flags)...)

	r := router.New(serviceName, logging.GetFromContext(ctx))

	err = api.RegisterHandlers(ctx, r, cfg.policies, resolver, tables)
	if err != nil {
		federation.Close()
		return nil, err
	}

	logging.GetFromContext(ctx).Info("sources registered", "kinds", fmt.Sprintf("%v", federation.Kinds()))

	return &App{
		addr:       net.JoinHostPort(flags[listenAddress], flags[servicePort]),
		router:     r,
		federation: federation,
	}, nil
}

func resolverOptions(flags FlagMap) []resolvers.Option {
	options := []resolvers.Option{}

	if strict, _ := strconv.ParseBool(flags[strictSingular]); strict {
		options = append(options, resolvers.WithStrictSingular())
	}

	if limit, err := strconv.Atoi(flags[maxConcurrentFields]); err == nil && limit > 0 {
		options = append(options, resolvers.WithMaxConcurrentFields(limit))
	}

	return options
}

// Run serves the api until ctx is done.
func (a *App) Run(ctx context.Context) error {
	logger := logging.GetFromContext(ctx)

	srv := &http.Server{
		Addr:              a.addr,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("starting to listen for connections", "addr", a.addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (a *App) Close() {
	a.federation.Close()
}

func parseExternalConfig(ctx context.Context, flags FlagMap) (context.Context, FlagMap) {

	envs := map[FlagType]string{
		listenAddress:       "LISTEN_ADDRESS",
		servicePort:         "SERVICE_PORT",
		configPath:          "CONFIG_PATH",
		policiesPath:        "POLICIES_PATH",
		logFormat:           "LOG_FORMAT",
		strictSingular:      "STRICT_SINGULAR",
		maxConcurrentFields: "MAX_CONCURRENT_FIELDS",
	}

	for f, name := range envs {
		flags[f] = env.GetVariableOrDefault(ctx, name, flags[f])
	}

	apply := func(f FlagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	flag.Func("listen", "ip address to listen on", apply(listenAddress))
	flag.Func("port", "port number to serve the api on", apply(servicePort))
	flag.Func("config", "path to the sources configuration file", apply(configPath))
	flag.Func("policies", "path to an authorization policy file", apply(policiesPath))
	flag.Func("logformat", "log format (json or text)", apply(logFormat))
	flag.Func("strict", "fail singular relations that match more than one row", apply(strictSingular))
	flag.Func("concurrency", "max number of sibling fields resolved concurrently", apply(maxConcurrentFields))
	flag.Parse()

	return ctx, flags
}
