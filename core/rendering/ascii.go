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

package rendering

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/google/tablegrid/core/grid"
)

// RenderASCII writes g as a text table. Changed cells are marked with '*',
// the sort direction is shown next to sorted headers and the pager state
// goes into the footer.
func RenderASCII(w io.Writer, g grid.Grid) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(g.Bordered)
	table.SetRowLine(false)

	alignment := make([]int, len(g.Header))
	if g.ShowHeader {
		header := make([]string, len(g.Header))
		for i, h := range g.Header {
			header[i] = h.Title
			switch h.SortOrder {
			case "ascend":
				header[i] += " ^"
			case "descend":
				header[i] += " v"
			}
		}
		table.SetHeader(header)
	}
	for i, h := range g.Header {
		alignment[i] = tablewriter.ALIGN_LEFT
		if h.Align == "right" {
			alignment[i] = tablewriter.ALIGN_RIGHT
		}
	}
	table.SetColumnAlignment(alignment)

	for _, r := range g.Rows {
		line := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			line[i] = c.Text
			if c.Changed {
				line[i] = "*" + line[i]
			}
		}
		table.Append(line)
	}

	if len(g.Header) > 0 {
		footer := make([]string, len(g.Header))
		footer[0] = fmt.Sprintf("page %d/%d", g.Toolbar.Current, g.Toolbar.PageCount)
		if len(footer) > 1 {
			footer[len(footer)-1] = fmt.Sprintf("%d rows", g.Toolbar.Total)
		} else {
			footer[0] += fmt.Sprintf(", %d rows", g.Toolbar.Total)
		}
		table.SetFooter(footer)
	}
	table.Render()
}
