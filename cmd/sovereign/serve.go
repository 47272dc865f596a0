package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/mcp-protocol/schema"
	mcpsrv "github.com/viant/mcp/server"
	"golang.org/x/sync/errgroup"

	"github.com/viant/sovereign/engine"
	"github.com/viant/sovereign/logger"
	smcp "github.com/viant/sovereign/mcp"
	"github.com/viant/sovereign/metrics"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var mcpAddr, metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine as MCP tools over streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			m := metrics.New()
			eng, cfg, log, err := a.open(ctx, m, true)
			if err != nil {
				return err
			}
			defer eng.Close()
			if metricsAddr != "" {
				cfg.Metrics.Enabled = true
				cfg.Metrics.Addr = metricsAddr
			}
			return serve(ctx, eng, cfg, resolveMCPAddr(mcpAddr, cfg), m, log)
		},
	}
	cmd.Flags().StringVar(&mcpAddr, "mcp-addr", "", "MCP server address (default from config or localhost:6061)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func serve(ctx context.Context, eng *engine.Engine, cfg *engine.Config, addr string, m *metrics.Metrics, log logger.Logger) error {
	server, err := mcpsrv.New(
		mcpsrv.WithImplementation(schema.Implementation{Name: "sovereign-mcp", Version: "0.1.0"}),
		mcpsrv.WithNewHandler(smcp.NewHandler(eng, log)),
		mcpsrv.WithEndpointAddress(addr),
		mcpsrv.WithRootRedirect(true),
		mcpsrv.WithStreamableURI("/mcp"),
	)
	if err != nil {
		return err
	}
	server.UseStreamableHTTP(true)
	mcpHTTP := server.HTTP(ctx, addr)
	mcpHTTP.ReadHeaderTimeout = 10 * time.Second
	mcpHTTP.ReadTimeout = 60 * time.Second
	mcpHTTP.WriteTimeout = cfg.Inference.Timeout + 30*time.Second
	mcpHTTP.IdleTimeout = 120 * time.Second

	servers := []*http.Server{mcpHTTP}
	if cfg.Metrics.Enabled && cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		servers = append(servers, &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second})
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		group.Go(func() error {
			log.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("http shutdown", "addr", srv.Addr, "error", err)
			}
		}
		return nil
	})
	return group.Wait()
}

func resolveMCPAddr(flagAddr string, cfg *engine.Config) string {
	if flagAddr != "" {
		return flagAddr
	}
	if cfg != nil {
		host := cfg.MCPServer.Addr
		if host == "" {
			host = "127.0.0.1"
		}
		if cfg.MCPServer.Port > 0 {
			return fmt.Sprintf("%s:%d", host, cfg.MCPServer.Port)
		}
	}
	return fmt.Sprintf("127.0.0.1:%d", engine.DefaultMCPPort)
}
