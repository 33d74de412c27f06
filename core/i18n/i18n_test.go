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

package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		tr   *Translator
		key  string
		args []any
		want string
	}{
		{"english", New(language.English), Refresh, nil, "Refresh"},
		{"chinese", New(language.SimplifiedChinese), Refresh, nil, "刷新"},
		{"chinese base", Parse("zh"), Empty, nil, "暂无数据"},
		{"english args", New(language.English), PageOf, []any{2, 5}, "Page 2 of 5"},
		{"chinese args", Parse("zh-CN"), Total, []any{30}, "共 30 条"},
		{"unsupported falls back", Parse("fr"), Save, nil, "Save changes"},
		{"accept language", ForAcceptLanguage("zh-CN,zh;q=0.9,en;q=0.8"), Cancel, nil, "取消"},
		{"bad accept language", ForAcceptLanguage(";;;"), Cancel, nil, "Cancel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.T(tt.key, tt.args...); got != tt.want {
				t.Errorf("T(%s) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestEveryKeyTranslated(t *testing.T) {
	en := messages[language.English]
	zh := messages[language.SimplifiedChinese]
	for key := range en {
		if _, ok := zh[key]; !ok {
			t.Errorf("missing chinese text for %s", key)
		}
	}
	if len(en) != len(zh) {
		t.Errorf("catalog sizes differ: en=%d zh=%d", len(en), len(zh))
	}
}
