package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/c2fo/remotestore"
	"github.com/c2fo/remotestore/config"
	"github.com/c2fo/remotestore/logging"
	"github.com/c2fo/remotestore/metrics"
	"github.com/c2fo/remotestore/storesimple"
	"github.com/c2fo/remotestore/utils"
)

const shutdownTimeout = 5 * time.Second

type session struct {
	store  *remotestore.RemoteStore
	logger *zap.Logger
	server *http.Server
	// backend connection of the sftp and ftp clients
	conn io.Closer
}

// loadSettings reads the config file and environment. Global flags that were set win over both.
func loadSettings(c *cli.Context) (*config.Settings, error) {
	settings, err := config.Load(c.GlobalString(flagConfig))
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		flagLocation:    &settings.Location,
		flagPath:        &settings.Path,
		flagToken:       &settings.AccessToken,
		flagLogLevel:    &settings.LogLevel,
		flagLogFormat:   &settings.LogFormat,
		flagMetricsAddr: &settings.MetricsAddr,
	}
	for flag, field := range overrides {
		if c.GlobalIsSet(flag) {
			*field = c.GlobalString(flag)
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func openSession(ctx context.Context, c *cli.Context) (*session, error) {
	settings, err := loadSettings(c)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(settings.Logging())
	if err != nil {
		return nil, err
	}

	uri, err := settings.StoreURI()
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	logger.Debug("opening store", zap.String("location", u.Redacted()))

	client, err := storesimple.NewClient(ctx, uri, storesimple.Settings{
		AccessToken: settings.AccessToken,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	sess := &session{logger: logger}
	if closer, ok := client.(io.Closer); ok {
		sess.conn = closer
	}
	if settings.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		client = metrics.Instrument(client, reg, metrics.DefaultNamespace)
		if sess.server, err = serveMetrics(settings.MetricsAddr, reg, logger); err != nil {
			return nil, errors.Join(err, sess.closeConn())
		}
	}

	sess.store = remotestore.New(client, utils.CleanPath(u.Path), remotestore.WithLogger(logger))
	return sess, nil
}

// serveMetrics listens on addr before returning so a bad address fails the command.
func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return srv, nil
}

func (s *session) close(ctx context.Context) error {
	var err error
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		err = s.server.Shutdown(shutdownCtx)
	}
	err = errors.Join(err, s.closeConn())
	// syncing stderr fails on some platforms; nothing is lost when it does
	_ = s.logger.Sync()
	return err
}

func (s *session) closeConn() error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("closing store connection: %w", err)
	}
	return nil
}
