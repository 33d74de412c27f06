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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/google/tablegrid/core/server"
	"github.com/google/tablegrid/demo"
)

func newDemoCommand() *cobra.Command {
	var dir string
	params := serveParams{watch: true}

	demoCommand := &cobra.Command{
		Use:   "demo",
		Short: "Serve the sample grids",
		Long: `Install the sample grids (orders, inventory and a generated transaction
log) into a directory and serve them. Edit the data files while the server
runs to see the grids reload.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				tmp, err := os.MkdirTemp("", "tablegrid-demo-")
				if err != nil {
					return err
				}
				defer os.RemoveAll(tmp)
				dir = tmp
			}
			configs, err := demo.Install(dir)
			if err != nil {
				return err
			}
			params.configs = configs

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, params)
		},
	}

	demoCommand.Flags().StringVarP(&dir, "dir", "d", "", "directory for the demo files (default: a temporary directory)")
	demoCommand.Flags().StringVarP(&params.addr, "addr", "a", "127.0.0.1:8097", "listen address")
	demoCommand.Flags().StringVar(&params.db, "db", "", "SQLite file recording saved change sets")
	demoCommand.Flags().IntVar(&params.maxSessions, "max-sessions", server.DefaultMaxSessions, "maximum number of live sessions")
	return demoCommand
}
