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

package changeset

import (
	"github.com/sirupsen/logrus"

	"github.com/google/tablegrid/core/eventloop"
	"github.com/google/tablegrid/core/events"
	"github.com/google/tablegrid/core/i18n"
	"github.com/google/tablegrid/core/metrics"
	"github.com/google/tablegrid/core/notify"
	"github.com/google/tablegrid/core/records"
)

// Controller implements save and cancel on top of a Tracker. It decides
// when the set is cleared; what saving means is up to the bound handler.
type Controller struct {
	Tracker *Tracker

	widget     string
	dispatcher events.Dispatcher
	notifier   notify.Notifier
	scheduler  eventloop.Scheduler
	translator *i18n.Translator
	metrics    *metrics.Metrics
	log        *logrus.Entry
}

// ControllerOptions are the collaborators of a Controller. Translator and
// Metrics are optional.
type ControllerOptions struct {
	Widget     string
	Dispatcher events.Dispatcher
	Notifier   notify.Notifier
	Scheduler  eventloop.Scheduler
	Translator *i18n.Translator
	Metrics    *metrics.Metrics
}

// NewController wires a tracker to its collaborators
func NewController(t *Tracker, opts ControllerOptions) *Controller {
	tr := opts.Translator
	if tr == nil {
		tr = i18n.Parse("en")
	}
	return &Controller{
		Tracker:    t,
		widget:     opts.Widget,
		dispatcher: opts.Dispatcher,
		notifier:   opts.Notifier,
		scheduler:  opts.Scheduler,
		translator: tr,
		metrics:    opts.Metrics,
		log:        logrus.WithFields(logrus.Fields{"component": "changeset", "widget": opts.Widget}),
	}
}

// SavePayload is delivered with the saveChanges event
type SavePayload struct {
	Widget  string
	Changes []Entry
	ByRow   map[string]map[string]records.Value
}

// Save fires saveChanges and schedules the clear. With no handler bound it
// warns the user once and leaves the change set untouched; it reports
// whether the event was fired.
func (c *Controller) Save() bool {
	if c.dispatcher == nil || !c.dispatcher.IsBound(events.SaveChanges) {
		c.log.WithField("changes", c.Tracker.Len()).Warn("save requested without a saveChanges handler")
		c.metrics.IncSaveWarning()
		if c.notifier != nil {
			c.notifier.Warn(c.translator.T(i18n.SaveChangesNotBound))
		}
		return false
	}

	c.dispatcher.Fire(events.SaveChanges, c.payload())
	c.scheduleClear()
	return true
}

// Cancel fires cancelChanges when bound and always schedules the clear
func (c *Controller) Cancel() {
	if c.dispatcher != nil && c.dispatcher.IsBound(events.CancelChanges) {
		c.dispatcher.Fire(events.CancelChanges, c.payload())
	}
	c.scheduleClear()
}

// ClearLater schedules a clear requested by the data source
func (c *Controller) ClearLater() {
	c.scheduleClear()
}

// Changed refreshes the pending-changes gauge after an edit
func (c *Controller) Changed() {
	c.metrics.SetPendingChanges(c.widget, c.Tracker.Len())
}

func (c *Controller) scheduleClear() {
	drop := func() {
		c.Tracker.Clear()
		c.metrics.SetPendingChanges(c.widget, 0)
		c.log.Debug("change set cleared")
	}
	if c.scheduler == nil {
		// strictly synchronous hosts: the event above was already issued
		drop()
		return
	}
	c.scheduler.Post(drop)
}

func (c *Controller) payload() SavePayload {
	return SavePayload{
		Widget:  c.widget,
		Changes: c.Tracker.Entries(),
		ByRow:   c.Tracker.ByRow(),
	}
}
