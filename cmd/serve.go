/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tablegrid Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/google/tablegrid/core/changestore"
	"github.com/google/tablegrid/core/metrics"
	"github.com/google/tablegrid/core/server"
	"github.com/google/tablegrid/datasources"
)

type serveParams struct {
	configs     []string
	addr        string
	db          string
	watch       bool
	maxSessions int
}

func newServeCommand() *cobra.Command {
	var params serveParams

	serveCommand := &cobra.Command{
		Use:   "serve --config <file> [--config <file>...]",
		Short: "Serve grids over HTTP",
		Long: `Serve one grid per configuration file.

Grids are served under /grid?widget=<name>; Prometheus metrics under /metrics.
Saved change sets are recorded in the SQLite database given by --db.`,
		PreRunE: func(*cobra.Command, []string) error {
			if len(params.configs) == 0 {
				return errors.New("at least one --config is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, params)
		},
	}

	serveCommand.Flags().StringArrayVarP(&params.configs, "config", "c", nil, "widget configuration file (textproto)")
	serveCommand.Flags().StringVarP(&params.addr, "addr", "a", "127.0.0.1:8097", "listen address")
	serveCommand.Flags().StringVar(&params.db, "db", "", "SQLite file recording saved change sets (empty disables saving)")
	serveCommand.Flags().BoolVarP(&params.watch, "watch", "w", false, "reload data files when they change")
	serveCommand.Flags().IntVar(&params.maxSessions, "max-sessions", server.DefaultMaxSessions, "maximum number of live sessions")

	return serveCommand
}

func serve(ctx context.Context, params serveParams) error {
	log := logrus.WithField("component", "serve")
	m := metrics.New()
	manager := datasources.NewManager(m)

	widgets, err := loadWidgets(params.configs, manager)
	if err != nil {
		return err
	}

	opts := server.Options{Refresher: manager, Metrics: m, MaxSessions: params.maxSessions}
	if params.db != "" {
		store, err := changestore.Open(params.db)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}

	srv, err := server.NewServer(opts)
	if err != nil {
		return err
	}
	for _, w := range widgets {
		srv.Register(w)
	}

	if params.watch {
		go func() {
			if err := manager.Watch(ctx); err != nil {
				log.WithError(err).Error("File watcher stopped")
			}
		}()
	}

	httpServer := &http.Server{Addr: params.addr, Handler: srv.Handler()}
	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", params.addr).Info("Listening")
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
