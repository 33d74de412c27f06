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

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveCompose("orders", 3*time.Millisecond, 10)
	m.SetPendingChanges("orders", 2)
	m.IncSaveWarning()
	m.IncEvent("saveChanges")
	m.IncSourceReload("orders", false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	for _, want := range []string{
		`tablegrid_compose_total{widget="orders"} 1`,
		`tablegrid_pending_changes{widget="orders"} 2`,
		`tablegrid_save_without_handler_total 1`,
		`tablegrid_events_fired_total{event="saveChanges"} 1`,
		`tablegrid_source_reloads_total{outcome="error",source="orders"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveCompose("x", time.Second, 1)
	m.SetPendingChanges("x", 1)
	m.IncSaveWarning()
	m.IncEvent("rowClick")
	m.IncColorFailure()
	m.IncSourceReload("x", true)
	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}
}
