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

// Package demo ships sample widgets: order and inventory grids backed by
// embedded files, plus a generated transaction log for paging at scale.
package demo

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:embed data/*
var dataFS embed.FS

// Install writes the demo data and widget configurations into dir and
// returns the configuration paths.
func Install(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create demo directory: %w", err)
	}

	entries, err := fs.ReadDir(dataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to list demo data: %w", err)
	}
	var configs []string
	for _, e := range entries {
		data, err := dataFS.ReadFile("data/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		path := filepath.Join(dir, e.Name())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		if strings.HasSuffix(e.Name(), ".textproto") {
			configs = append(configs, path)
		}
	}

	txns, err := os.Create(filepath.Join(dir, "transactions.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactions: %w", err)
	}
	defer txns.Close()
	if err := WriteTransactions(txns, PerfNumTransactions); err != nil {
		return nil, fmt.Errorf("failed to write transactions: %w", err)
	}

	logrus.WithFields(logrus.Fields{"dir": dir, "widgets": len(configs)}).Info("Installed demo")
	return configs, nil
}
