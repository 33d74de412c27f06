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
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/google/tablegrid/core/coloring"
	"github.com/google/tablegrid/core/config"
	"github.com/google/tablegrid/core/server"
	"github.com/google/tablegrid/datasources"
)

// loadWidgets reads widget configurations and loads their data sources.
// Relative data file paths resolve against the configuration file.
func loadWidgets(paths []string, manager *datasources.Manager) ([]server.Widget, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, err
	}
	compiler, err := coloring.NewCompiler(0)
	if err != nil {
		return nil, err
	}

	var widgets []server.Widget
	for _, path := range paths {
		cfg, err := loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		ds := cfg.DataSource
		if ds.FilePath != "" && !filepath.IsAbs(ds.FilePath) {
			ds.FilePath = filepath.Join(filepath.Dir(path), ds.FilePath)
		}
		manager.AddSource(ds)
		src, err := manager.LoadData(ds.Name)
		if err != nil {
			return nil, err
		}

		props, err := cfg.Props(compiler)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		widgets = append(widgets, server.Widget{Props: props, Source: src, Events: cfg.Events()})
		logrus.WithFields(logrus.Fields{"widget": props.Name, "source": ds.Name, "rows": len(src.Records())}).Info("Loaded widget")
	}
	return widgets, nil
}
