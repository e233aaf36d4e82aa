package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"costumeshop/server/account"
	"costumeshop/server/api"
	"costumeshop/server/auth"
	"costumeshop/server/catalog"
	"costumeshop/server/metrics"
	"costumeshop/server/shop"
	"costumeshop/server/srv"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket shop server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().Int64Var(&cfg.StartingGold, "starting-gold", cfg.StartingGold, "gold given to new players")
	return cmd
}

func serve(ctx context.Context) error {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	first, ok := cat.First()
	if !ok {
		return errors.New("catalog is empty")
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	a, err := auth.New(cfg.DataDir, cfg.JWTKey, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	accounts := account.NewService(store,
		account.WithLogger(logger),
		account.WithStartingGold(cfg.StartingGold),
		account.WithDefaultCostume(first.ID),
	)
	engine := shop.NewEngine(cat, shop.WithLogger(logger), shop.WithMetrics(m))
	hub := srv.NewHub(accounts, engine, srv.WithLogger(logger), srv.WithMetrics(m))

	s := &http.Server{
		Addr: cfg.Addr,
		Handler: api.NewRouter(api.Deps{
			Auth:     a,
			Catalog:  cat,
			Accounts: accounts,
			Hub:      hub,
			Gatherer: reg,
			Logger:   logger,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", cfg.Addr, "costumes", cat.Len())
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server shutting down")
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
