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
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// enumFlag is a pflag.Value accepting one of a fixed set of values
type enumFlag struct {
	value  string
	values []string
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(defaultValue string, values []string) *enumFlag {
	return &enumFlag{value: defaultValue, values: values}
}

func (f *enumFlag) Type() string {
	return "{" + strings.Join(f.values, ",") + "}"
}

func (f *enumFlag) String() string {
	return f.value
}

func (f *enumFlag) Set(s string) error {
	if !slices.Contains(f.values, s) {
		return fmt.Errorf("must be one of %v", f.Type())
	}
	f.value = s
	return nil
}
