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

// Package eventloop is the single-writer task queue grid interactions run
// on. Work posted during a turn runs after the current handler returns and
// before the next render.
package eventloop

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Scheduler accepts deferred work
type Scheduler interface {
	Post(task func())
}

// Loop is a FIFO queue of deferred tasks
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	log   *logrus.Entry
}

// New creates an empty loop
func New() *Loop {
	return &Loop{log: logrus.WithField("component", "eventloop")}
}

// Post enqueues task to run on the next RunPending
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()
}

// Pending returns the number of queued tasks
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// RunPending runs queued tasks in order until the queue is empty,
// including tasks posted by the tasks themselves. It returns how many ran.
func (l *Loop) RunPending() int {
	ran := 0
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			break
		}
		batch := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		for _, task := range batch {
			task()
			ran++
		}
	}
	if ran > 0 {
		l.log.WithField("tasks", ran).Debug("ran deferred tasks")
	}
	return ran
}

// Turn runs handler and then drains the tasks it posted
func (l *Loop) Turn(handler func()) {
	handler()
	l.RunPending()
}
