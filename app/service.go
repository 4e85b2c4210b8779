package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/kilianp07/assetplan/api/plan"
	"github.com/kilianp07/assetplan/config"
	"github.com/kilianp07/assetplan/core/events"
	coremetrics "github.com/kilianp07/assetplan/core/metrics"
	"github.com/kilianp07/assetplan/core/planner"
	"github.com/kilianp07/assetplan/core/runlog"
	"github.com/kilianp07/assetplan/infra/logger"
	"github.com/kilianp07/assetplan/infra/metrics"
	_ "github.com/kilianp07/assetplan/infra/mqtt"
	"github.com/kilianp07/assetplan/internal/eventbus"
)

// Service serves the planning API and forwards completed plans to the
// configured metrics sinks.
type Service struct {
	Planners *planner.Factory
	Store    runlog.Store

	cfg    *config.Config
	sink   coremetrics.MetricsSink
	bus    *eventbus.Bus[events.PlanCompleted]
	server *http.Server
	log    logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := runlog.NewStore(cfg.RunLog)
	if err != nil {
		coremetrics.Close(sink)
		return nil, fmt.Errorf("run store: %w", err)
	}
	bus := eventbus.New[events.PlanCompleted]()
	planners := planner.NewFactory(cfg.Fleet.Fleet(), cfg.Assign, planner.Deps{
		Store: store,
		Bus:   bus,
		Log:   logger.New("planner"),
	})

	var mws []func(http.Handler) http.Handler
	if cfg.Metrics.PrometheusAddr != "" {
		mw, err := metrics.NewHTTPMiddleware(nil)
		if err != nil {
			coremetrics.Close(sink)
			_ = store.Close()
			return nil, fmt.Errorf("http metrics: %w", err)
		}
		mws = append(mws, mw.Handler)
	}
	h := plan.NewHandler(planners, store, plan.Options{
		Ingest:         cfg.Ingest,
		Summary:        cfg.Summary,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		Token:          cfg.Server.Token,
	}, logger.New("api"))

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           plan.NewRouter(h, mws...),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout(),
	}
	return &Service{
		Planners: planners,
		Store:    store,
		cfg:      cfg,
		sink:     sink,
		bus:      bus,
		server:   srv,
		log:      logg,
	}, nil
}

// Handler returns the HTTP handler of the API.
func (s *Service) Handler() http.Handler { return s.server.Handler }

// Run serves the API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("collector"))
	s.logPlans(ctx)
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	s.log.Infof("serving %d machines on %s with policy %s",
		s.Planners.Fleet().Size(), ln.Addr(), s.Planners.DefaultPolicy())

	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(ln) }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// logPlans logs a line per completed plan.
func (s *Service) logPlans(ctx context.Context) {
	sub := s.bus.Subscribe()
	go func() {
		defer s.bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				s.log.Debugw("plan completed", map[string]any{
					"plan_id":    ev.Result.PlanID,
					"source":     ev.Result.Source,
					"policy":     ev.Result.Policy,
					"rows":       ev.Result.Rows,
					"unassigned": ev.Result.Unassigned,
				})
			}
		}
	}()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	coremetrics.Close(s.sink)
	return s.Store.Close()
}
