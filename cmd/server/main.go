package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/xtding233/spinwheel/internal/config"
	"github.com/xtding233/spinwheel/internal/log"
	"github.com/xtding233/spinwheel/internal/rpc"
	"github.com/xtding233/spinwheel/internal/session"
	"github.com/xtding233/spinwheel/internal/storage"
	"github.com/xtding233/spinwheel/internal/web"
	"github.com/xtding233/spinwheel/internal/wheel"
)

func main() {
	env, err := config.ParseEnv()
	if err != nil {
		panic(err)
	}
	defer log.Setup(env.Debug)()
	defer func() { _ = zap.L().Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, env); err != nil {
		log.Fatal(ctx, "server failed", zap.Error(err))
	}
}

func run(ctx context.Context, env *config.Env) error {
	loader := config.NewLoader(env.ConfigDir)
	_, settings, err := loader.Resolve(env.Preset, config.Overrides{})
	if err != nil {
		return err
	}
	var current atomic.Pointer[config.Settings]
	current.Store(&settings)
	log.Info(ctx, "config loaded",
		zap.String("dir", env.ConfigDir),
		zap.String("preset", env.Preset),
		zap.String("version", settings.Version))

	if env.WatchInterval > 0 {
		w := config.NewWatcher(loader.WatchedFiles(env.Preset), env.WatchInterval, func(string) {
			loader.Invalidate()
			_, next, err := loader.Resolve(env.Preset, config.Overrides{})
			if err != nil {
				log.Warn(ctx, "config reload rejected; keeping previous", zap.Error(err))
				return
			}
			current.Store(&next)
			log.Info(ctx, "config reloaded", zap.String("version", next.Version))
		})
		go w.Run(ctx)
	}

	sc := env.StoreFor(settings)
	store, err := storage.Open(ctx, sc.Driver, sc.DSN)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info(ctx, "store opened", zap.String("driver", sc.Driver), zap.String("dsn", sc.DSN))

	// new wheels pick up reloaded spin settings and default options
	sessions := session.NewRegistry(func(ctx context.Context, id string) *wheel.Controller {
		s := current.Load()
		return session.NewFactory(store, s.Defaults, wheel.Config{Spin: s.Spin})(ctx, id)
	})
	sessions.IdleTTL = env.SessionIdleTTL
	sessions.Default(ctx)
	go sessions.Run(ctx, time.Minute)

	tmpl, err := web.ParseTemplates()
	if err != nil {
		return err
	}
	httpSrv := &http.Server{
		Addr: env.HTTPAddr,
		Handler: (&web.Server{
			Sessions:    sessions,
			Settings:    func() config.Settings { return *current.Load() },
			Loader:      loader,
			Preset:      env.Preset,
			Tmpl:        tmpl,
			CORSOrigins: env.CORSOrigins,
		}).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(rpc.UnaryLogger),
		grpc.ChainStreamInterceptor(rpc.StreamLogger),
	)
	rpc.RegisterWheelServer(grpcSrv, &rpc.Server{
		Sessions:      sessions,
		FrameInterval: settings.FrameInterval,
	})
	lis, err := net.Listen("tcp", env.GRPCAddr)
	if err != nil {
		return err
	}

	errc := make(chan error, 2)
	go func() {
		log.Info(ctx, "http listening", zap.String("addr", env.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	go func() {
		log.Info(ctx, "grpc listening", zap.String("addr", env.GRPCAddr))
		if err := grpcSrv.Serve(lis); err != nil {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}

	log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	grpcSrv.GracefulStop()
	return httpSrv.Shutdown(shutdownCtx)
}
