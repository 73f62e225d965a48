package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/52Jolynn/bindb/bdata"
	"github.com/52Jolynn/bindb/conf"
	"github.com/52Jolynn/bindb/data"
	"github.com/52Jolynn/bindb/metrics"
	"github.com/52Jolynn/bindb/middleware"
	"github.com/52Jolynn/bindb/route"
)

func setMode(mode string) {
	switch mode {
	case data.RunModeDev:
		gin.SetMode(gin.DebugMode)
	case data.RunModeTest:
		gin.SetMode(gin.TestMode)
	case data.RunModeRelease:
		gin.SetMode(gin.ReleaseMode)
	}
}

func newEngine(svc *bdata.Service, collector *metrics.Collector, cfg *conf.Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Log())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics(collector))
	r.Use(middleware.CORS())
	route.Register(r, svc, route.Options{
		MaxBulk:    cfg.MaxBulk,
		RetryAfter: cfg.RetryAfterSeconds(),
		ProbeBINs:  cfg.ProbeBINs,
		Metrics:    collector.Handler(),
	})
	return r
}

func main() {
	if err := run(); err != nil {
		logger.Fatal(err)
	}
}

func run() error {
	logger.SetFormatter(&logger.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stdout)

	cfg, err := conf.Load(os.Args[1:])
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.New()
	svc := bdata.NewService(bdata.WithObserver(collector))

	setMode(cfg.Mode)
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        newEngine(svc, collector, cfg),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		//加载失败只降级, 不退出
		svc.Load(gctx, afero.NewOsFs(), cfg.DataPath)
		return nil
	})
	g.Go(func() error {
		logger.Infof("starting http server, port: %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "server shutdown")
		}
		return nil
	})

	if err = g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exit.")
	return nil
}
