package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	apiplan "github.com/kilianp07/planfit/api/plan"
	"github.com/kilianp07/planfit/config"
	coremetrics "github.com/kilianp07/planfit/core/metrics"
	"github.com/kilianp07/planfit/core/planner"
	corestore "github.com/kilianp07/planfit/core/store"
	"github.com/kilianp07/planfit/infra/logger"
	"github.com/kilianp07/planfit/infra/metrics"
	"github.com/kilianp07/planfit/infra/notify"
	"github.com/kilianp07/planfit/infra/store"
	"github.com/kilianp07/planfit/internal/eventbus"
)

// Service orchestrates the planner, its persistence and triggers.
type Service struct {
	Planner *planner.Planner

	cfg      *config.Config
	cfgPath  string
	store    corestore.Store
	bus      *eventbus.Bus
	notifier notify.Publisher
	cronner  *cron.Cron
	log      logger.Logger
}

// New creates a Service from the configuration. cfgPath is kept so the
// config watcher can reload settings.
func New(cfg *config.Config, cfgPath string) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.PlanSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			cfg.Metrics.InfluxURL, cfg.Metrics.InfluxToken, cfg.Metrics.InfluxOrg, cfg.Metrics.InfluxBucket))
	}
	var sink coremetrics.PlanSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	pl, err := planner.New(cfg.Planner, bus, sink, logg)
	if err != nil {
		return nil, err
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("snapshot store: %w", err)
	}
	if snap, ok, err := st.Load(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	} else if ok {
		if err := pl.Restore(snap); err != nil {
			return nil, fmt.Errorf("restore snapshot: %w", err)
		}
		logg.Infof("restored %d intervals and %d tasks", len(snap.Intervals), len(snap.Tasks))
	}

	svc := &Service{Planner: pl, cfg: cfg, cfgPath: cfgPath, store: st, bus: bus, log: logg}
	if cfg.Notify.Enabled {
		pub, err := notify.NewMQTTPublisher(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("notifier: %w", err)
		}
		svc.notifier = pub
	}
	return svc, nil
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	events := s.bus.Subscribe()
	go s.consumeEvents(events)

	s.cronner = cron.New()
	if _, err := s.cronner.AddFunc(s.cfg.Replan.Cron, func() {
		s.Planner.Reschedule()
	}); err != nil {
		return fmt.Errorf("replan cron %q: %w", s.cfg.Replan.Cron, err)
	}
	s.cronner.Start()

	if s.cfg.Replan.WatchConfig && s.cfgPath != "" {
		go s.watchConfig(ctx)
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("metrics server: %v", err)
			}
		}()
	}
	if s.cfg.API.Enabled {
		go s.serveAPI(ctx)
	}

	s.Planner.Reschedule()
	<-ctx.Done()
	return nil
}

// consumeEvents persists and publishes every plan update.
func (s *Service) consumeEvents(events <-chan eventbus.Event) {
	for ev := range events {
		upd, ok := ev.(planner.PlanUpdated)
		if !ok {
			continue
		}
		if err := s.store.Save(s.Planner.Snapshot()); err != nil {
			s.log.Errorf("save snapshot: %v", err)
		}
		if s.notifier != nil {
			if err := s.notifier.PublishPlan(upd.Result); err != nil {
				s.log.Errorf("publish plan: %v", err)
			}
		}
	}
}

// watchConfig reloads scheduler settings when the config file changes.
// Every accepted settings change triggers a full reschedule.
func (s *Service) watchConfig(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Errorf("config watcher: %v", err)
		return
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files on save, which drops
	// a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(s.cfgPath)); err != nil {
		s.log.Errorf("config watcher: %v", err)
		return
	}
	target := filepath.Clean(s.cfgPath)

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, s.reloadSettings)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warnf("config watcher: %v", err)
		}
	}
}

func (s *Service) reloadSettings() {
	cfg, err := config.Load(s.cfgPath)
	if err != nil {
		s.log.Errorf("reload config: %v", err)
		return
	}
	if err := s.Planner.UpdateSettings(cfg.Planner.Settings); err != nil {
		s.log.Errorf("apply settings: %v", err)
		return
	}
	s.log.Infof("settings reloaded from %s", s.cfgPath)
}

func (s *Service) serveAPI(ctx context.Context) {
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: apiplan.NewHandler(s.Planner, s.cfg.API)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.log.Infof("plan API listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Errorf("plan API: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.cronner != nil {
		s.cronner.Stop()
	}
	if s.notifier != nil {
		s.notifier.Close()
	}
	s.bus.Close()
	return s.store.Close()
}
