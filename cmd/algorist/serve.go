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

	"github.com/aretw0/algorist/internal/cli"
	httpAdapter "github.com/aretw0/algorist/pkg/adapters/http"
	"github.com/aretw0/algorist/pkg/observability"
	"github.com/aretw0/algorist/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Start the HTTP server",
	Long: `Serves grammar runs over a JSON API described by /openapi.yaml, with
Prometheus metrics on /metrics. With --watch, clients of /events are told
when the grammar at --dir changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := baseOptions(cmd, args)
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")
		strict, _ := cmd.Flags().GetBool("validate-requests")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		logger := cli.CreateLogger(opts.Debug)
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		handlerOpts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithGeometryCache(cli.OpenCache(opts)),
			httpAdapter.WithMetrics(observability.NewMetrics(reg), reg),
			httpAdapter.WithRunTimeout(timeout),
			httpAdapter.WithRequestValidation(strict),
		}
		if watch {
			loader, err := cli.OpenLoader(opts, logger)
			if err != nil {
				fmt.Printf("Error opening grammar: %v\n", err)
				os.Exit(1)
			}
			w, ok := loader.(ports.Watchable)
			if !ok {
				fmt.Println("Error: grammar source does not support --watch")
				os.Exit(1)
			}
			handlerOpts = append(handlerOpts, httpAdapter.WithWatcher(w))
		}

		handler, err := httpAdapter.NewHandler(handlerOpts...)
		if err != nil {
			fmt.Printf("Error initializing server: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Algorist Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				fmt.Printf("Server error: %v\n", err)
				os.Exit(1)
			}

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Algorist Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().BoolP("watch", "w", false, "Publish reload events when the grammar at --dir changes")
	serveCmd.Flags().Bool("validate-requests", false, "Validate request bodies against the OpenAPI document")
	serveCmd.Flags().Duration("timeout", httpAdapter.DefaultRunTimeout, "Upper bound for a single run")
}
