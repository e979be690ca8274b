package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/eagraf/shipmate/internal/supervisor/api"
	"github.com/eagraf/shipmate/internal/supervisor/config"
	"github.com/eagraf/shipmate/internal/supervisor/engine"
	"github.com/eagraf/shipmate/internal/supervisor/logging"
	"github.com/eagraf/shipmate/internal/supervisor/loop"
	"github.com/eagraf/shipmate/internal/supervisor/target"
)

// stateViewer glues the engine reader and the loop's last plan together for
// the API.
type stateViewer struct {
	*engine.StateReader
	*loop.Loop
}

func main() {
	supervisorConfig, err := config.NewSupervisorConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewLogger(supervisorConfig.LogLevel())

	dockerClient, err := engine.NewClient()
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to container engine")
	}

	store, err := target.NewStore(supervisorConfig.TargetStorePath())
	if err != nil {
		log.Fatal().Err(err).Msg("error opening target store")
	}

	tracker := loop.NewTracker()
	reader := engine.NewStateReader(dockerClient)
	fetcher := engine.NewFetcher(dockerClient)
	executor := engine.NewExecutor(dockerClient, fetcher, tracker, tracker)
	mirror := engine.NewMirror(dockerClient, tracker)

	reconciler := loop.New(reader, store, fetcher, executor, tracker, loop.Config{
		Interval:  supervisorConfig.PollInterval(),
		LocalMode: supervisorConfig.LocalMode(),
	})

	// ctx.Done() returns when SIGINT is called or cancel() is called.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return reconciler.Run(egCtx)
	})
	eg.Go(func() error {
		return mirror.Run(egCtx)
	})

	viewer := stateViewer{StateReader: reader, Loop: reconciler}
	routes := []api.Route{
		api.NewHealthzHandler(),
		api.NewStateHandler(viewer, store),
		api.NewSetTargetHandler(store),
		api.NewPatchTargetHandler(store),
		api.NewRestartServiceHandler(viewer, executor),
	}

	router := api.NewRouter(routes, log)
	apiServer := &http.Server{
		Addr:    supervisorConfig.ListenAddress(),
		Handler: router,
	}

	eg.Go(func() error {
		log.Info().Msgf("Starting device API at %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Wait for os.Interrupt (ctx.Done) or a sub-service error (egCtx.Done).
	select {
	case <-egCtx.Done():
		log.Err(egCtx.Err()).Msg("sub-service errored, shutting down")
		cancel()
	case <-ctx.Done():
		log.Info().Msg("Interrupt signal received; shutting down")
	}

	if err := apiServer.Shutdown(context.Background()); err != nil {
		log.Err(err).Msg("error on api-server shutdown")
	}

	if err := eg.Wait(); err != nil {
		log.Err(err).Msg("received error on eg.Wait()")
	}
}
