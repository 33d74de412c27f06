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

package datasources

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/tablegrid/core/records"
)

// CsvLoader implements Loader for CSV files. Cell text is typed with
// records.Infer: empty cells are null, "true"/"false" are booleans and
// numeric text becomes a number.
//
// Required config keys:
//   - file_path: Path to the CSV file
//
// Optional config keys:
//   - has_header: "true" or "false" (default: "true")
//   - delimiter: Field delimiter (default: ",")
//   - id_field: Column holding the row identity
type CsvLoader struct{}

// NewCsvLoader creates a new CSV loader.
func NewCsvLoader() *CsvLoader {
	return &CsvLoader{}
}

// SourceType returns "csv".
func (l *CsvLoader) SourceType() string {
	return "csv"
}

// Load reads the file. Without a header, columns are named col_0, col_1, ...
func (l *CsvLoader) Load(config map[string]string) ([]records.Record, error) {
	filePath := config["file_path"]
	if filePath == "" {
		return nil, fmt.Errorf("file_path is required")
	}

	hasHeader := config["has_header"] != "false"

	delimiter := ','
	if d := config["delimiter"]; d != "" {
		delimiter = []rune(d)[0]
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	var header []string
	var rows []records.Record
	for {
		line, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if header == nil {
			if hasHeader {
				header = line
				continue
			}
			header = make([]string, len(line))
			for i := range line {
				header[i] = fmt.Sprintf("col_%d", i)
			}
		}

		fields := records.NewOrderedMap[string, records.Value]()
		for i, name := range header {
			value := records.Null()
			if i < len(line) {
				value = records.Infer(line[i])
			}
			fields.Set(name, value)
		}
		rows = append(rows, records.NewRecord(len(rows), fields).WithIDField(config["id_field"]))
	}
	return rows, nil
}
