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

package notify

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestQueueDrain(t *testing.T) {
	q := NewQueue()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return fixed }

	q.Warn("not saved")
	q.Info("saved")
	q.Error("boom")
	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}

	got := q.Drain()
	want := []Toast{
		{Level: LevelWarning, Message: "not saved", At: fixed},
		{Level: LevelInfo, Message: "saved", At: fixed},
		{Level: LevelError, Message: "boom", At: fixed},
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Toast{}, "ID")); diff != "" {
		t.Errorf("toasts mismatch (-want +got):\n%s", diff)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Errorf("toasts need distinct ids, got %q and %q", got[0].ID, got[1].ID)
	}
	if q.Len() != 0 || len(q.Drain()) != 0 {
		t.Error("Drain should empty the queue")
	}
}
