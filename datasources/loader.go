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

// Package datasources loads the records a grid renders from files (JSON,
// CSV) and keeps them fresh while the files change.
package datasources

import (
	"fmt"
	"os"

	"github.com/google/tablegrid/core/records"
)

// Loader is the interface that all data source loaders must implement.
// Tablegrid provides built-in loaders for "json" and "csv"; callers can
// register others on the Manager.
type Loader interface {
	// SourceType returns the type identifier used in config (e.g., "json", "csv").
	SourceType() string

	// Load reads the source and returns its records in source order.
	Load(config map[string]string) ([]records.Record, error)
}

// JSONLoader implements Loader for files holding a JSON array of objects.
// Field order of the first object drives dynamic columns.
//
// Required config keys:
//   - file_path: Path to the JSON file
//
// Optional config keys:
//   - id_field: Field holding the row identity
type JSONLoader struct{}

// NewJSONLoader creates a new JSON loader.
func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

// SourceType returns "json".
func (l *JSONLoader) SourceType() string {
	return "json"
}

// Load reads and parses the file.
func (l *JSONLoader) Load(config map[string]string) ([]records.Record, error) {
	filePath := config["file_path"]
	if filePath == "" {
		return nil, fmt.Errorf("file_path is required")
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	return records.ParseJSONWithID(data, config["id_field"])
}
