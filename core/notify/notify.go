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

// Package notify carries user-visible notifications (toasts) from the grid
// to whatever surface displays them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Level is the severity of a notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier surfaces messages to the user
type Notifier interface {
	Warn(message string)
	Info(message string)
}

// Toast is one queued notification
type Toast struct {
	ID      string
	Level   Level
	Message string
	At      time.Time
}

// Queue collects toasts until the page that shows them drains it
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	now    func() time.Time
	log    *logrus.Entry
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{
		now: time.Now,
		log: logrus.WithField("component", "notify"),
	}
}

// Warn queues a warning
func (q *Queue) Warn(message string) {
	q.push(LevelWarning, message)
}

// Info queues an informational message
func (q *Queue) Info(message string) {
	q.push(LevelInfo, message)
}

// Error queues an error
func (q *Queue) Error(message string) {
	q.push(LevelError, message)
}

func (q *Queue) push(level Level, message string) {
	t := Toast{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      q.now(),
	}
	q.mu.Lock()
	q.toasts = append(q.toasts, t)
	q.mu.Unlock()

	entry := q.log.WithField("toast", t.ID)
	switch level {
	case LevelWarning:
		entry.Warn(message)
	case LevelError:
		entry.Error(message)
	default:
		entry.Info(message)
	}
}

// Len returns the number of undelivered toasts
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.toasts)
}

// Drain returns and removes every queued toast, oldest first
func (q *Queue) Drain() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.toasts
	q.toasts = nil
	return out
}
