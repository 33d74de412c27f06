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

// Package cmd holds the tablegrid command line.
package cmd

import (
	"os"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCommand returns the base CLI command with all subcommands added.
func NewRootCommand() *cobra.Command {
	logLevel := newEnumFlag("info", []string{"debug", "info", "warn", "error"})
	logFormat := newEnumFlag("text", []string{"text", "json"})

	root := &cobra.Command{
		Use:           path.Base(os.Args[0]),
		Short:         "Tablegrid",
		Long:          "Serve and render configurable data grids.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setupLogging(logLevel.String(), logFormat.String())
		},
	}
	root.PersistentFlags().VarP(logLevel, "log-level", "l", "set log level")
	root.PersistentFlags().Var(logFormat, "log-format", "set log format")

	root.AddCommand(newServeCommand(), newRenderCommand(), newDemoCommand())
	return root
}

func setupLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
