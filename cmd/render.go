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
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/google/tablegrid/core/grid"
	"github.com/google/tablegrid/core/i18n"
	"github.com/google/tablegrid/core/query"
	"github.com/google/tablegrid/core/rendering"
	"github.com/google/tablegrid/core/sorting"
	"github.com/google/tablegrid/core/views"
	"github.com/google/tablegrid/datasources"
)

type renderParams struct {
	config   string
	format   *enumFlag
	page     int
	pageSize int
	search   string
	sort     []string
	lang     string
}

func newRenderCommand() *cobra.Command {
	params := renderParams{format: newEnumFlag("ascii", []string{"ascii", "html"})}

	renderCommand := &cobra.Command{
		Use:   "render --config <file>",
		Short: "Render one page of a grid",
		Long: `Render one page of a grid to standard output, as an ASCII table or as
the HTML page the server would send.

Sort columns are given as key or key:desc and may be repeated.`,
		PreRunE: func(*cobra.Command, []string) error {
			if params.config == "" {
				return errors.New("--config is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return render(cmd.OutOrStdout(), params)
		},
	}

	renderCommand.Flags().StringVarP(&params.config, "config", "c", "", "widget configuration file (textproto)")
	renderCommand.Flags().VarP(params.format, "format", "f", "output format")
	renderCommand.Flags().IntVarP(&params.page, "page", "p", 0, "page to render (default: configured page)")
	renderCommand.Flags().IntVar(&params.pageSize, "page-size", 0, "rows per page (default: configured page size)")
	renderCommand.Flags().StringVarP(&params.search, "search", "s", "", "search text")
	renderCommand.Flags().StringArrayVar(&params.sort, "sort", nil, "sort column, as key or key:desc")
	renderCommand.Flags().StringVar(&params.lang, "lang", "en", "language of toolbar labels")

	return renderCommand
}

func parseSort(args []string) []sorting.SortValue {
	var out []sorting.SortValue
	for _, arg := range args {
		key, dir, _ := strings.Cut(arg, ":")
		out = append(out, sorting.SortValue{Column: key, Desc: dir == "desc"})
	}
	return out
}

func render(w io.Writer, params renderParams) error {
	manager := datasources.NewManager(nil)
	widgets, err := loadWidgets([]string{params.config}, manager)
	if err != nil {
		return err
	}
	def := widgets[0]

	widget := grid.New(def.Props, grid.Options{Translator: i18n.Parse(params.lang)})
	if sort := parseSort(params.sort); len(sort) > 0 {
		widget.OnTableChange(grid.TableChange{Action: grid.ActionSort, Sorter: sort})
	}
	widget.SetSearch(params.search)
	if params.page > 0 || params.pageSize > 0 {
		p := widget.Props().Pagination
		if params.page > 0 {
			p.Current = params.page
		}
		p.PageSize = params.pageSize
		widget.OnTableChange(grid.TableChange{Action: grid.ActionPaginate, Pagination: p})
	}
	g := widget.Compose(def.Source)

	if params.format.String() == "ascii" {
		rendering.RenderASCII(w, g)
		return nil
	}

	renderer, err := rendering.NewGridRenderer()
	if err != nil {
		return err
	}
	q := query.NewQuery(&url.URL{Path: "/grid", RawQuery: url.Values{"widget": {def.Props.Name}}.Encode()})
	q.Page = g.Toolbar.Current
	q.Sort = widget.Sort()
	q.Search = params.search
	return renderer.Render(w, views.BuildGridViewModel(g, q, i18n.Parse(params.lang), nil))
}
