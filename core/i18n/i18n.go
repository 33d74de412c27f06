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

// Package i18n holds the user-visible strings of the grid in English and
// Chinese and picks a language from an Accept-Language header.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	SaveChangesNotBound = "table.saveChangesNotBind"
	Refresh             = "table.refresh"
	Download            = "table.download"
	ColumnSetting       = "table.columnSetting"
	Search              = "table.searchText"
	Save                = "table.saveChanges"
	Cancel              = "table.cancelChanges"
	Loading             = "table.loading"
	Empty               = "table.empty"
	PageOf              = "table.pageOf"
	Total               = "table.total"
	Edited              = "table.edited"
	Saved               = "table.saved"
)

var supported = []language.Tag{language.English, language.SimplifiedChinese}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[string]string{
	language.English: {
		SaveChangesNotBound: "Changes were not saved: no saveChanges handler is bound",
		Refresh:             "Refresh",
		Download:            "Download",
		ColumnSetting:       "Columns",
		Search:              "Search",
		Save:                "Save changes",
		Cancel:              "Cancel",
		Loading:             "Loading",
		Empty:               "No data",
		PageOf:              "Page %d of %d",
		Total:               "%d rows",
		Edited:              "%d unsaved changes",
		Saved:               "Changes saved",
	},
	language.SimplifiedChinese: {
		SaveChangesNotBound: "修改未保存：未绑定 saveChanges 事件",
		Refresh:             "刷新",
		Download:            "下载",
		ColumnSetting:       "列设置",
		Search:              "搜索",
		Save:                "保存修改",
		Cancel:              "取消",
		Loading:             "加载中",
		Empty:               "暂无数据",
		PageOf:              "第 %d 页，共 %d 页",
		Total:               "共 %d 条",
		Edited:              "%d 处未保存的修改",
		Saved:               "修改已保存",
	},
}

var cat = build()

func build() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			// keys and messages are static; SetString only fails on malformed tags
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}

// Translator formats messages in one language
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for tag, falling back to English
func New(tag language.Tag) *Translator {
	matched, _, _ := matcher.Match(tag)
	base, _ := matched.Base()
	for _, t := range supported {
		if b, _ := t.Base(); b == base {
			matched = t
			break
		}
	}
	return &Translator{
		tag:     matched,
		printer: message.NewPrinter(matched, message.Catalog(cat)),
	}
}

// ForAcceptLanguage picks a translator from an HTTP Accept-Language value
func ForAcceptLanguage(header string) *Translator {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return New(language.English)
	}
	matched, _, _ := matcher.Match(tags...)
	return New(matched)
}

// Parse returns a translator for a BCP 47 language name such as "zh"
func Parse(lang string) *Translator {
	tag, err := language.Parse(lang)
	if err != nil {
		return New(language.English)
	}
	return New(tag)
}

// Language returns the matched language
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T formats the message for key
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}
