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

// Package changestore keeps a history of saved change sets in SQLite.
package changestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/google/tablegrid/core/changeset"
	"github.com/google/tablegrid/core/events"
	"github.com/google/tablegrid/core/records"
)

// Store wraps the SQLite database connection.
type Store struct {
	conn *sql.DB
	now  func() time.Time
	log  *logrus.Entry
}

// Saved is one persisted cell edit
type Saved struct {
	Batch    string
	Widget   string
	RowID    string
	Column   string
	Original records.Value
	Edited   records.Value
	SavedAt  time.Time
}

// Open opens (or creates) the SQLite file at path. ":memory:" keeps the
// history in memory.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One writer; an in-memory database also lives in a single connection.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, now: time.Now, log: logrus.WithField("component", "changestore")}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS changes (
			batch TEXT NOT NULL,
			seq INTEGER NOT NULL,
			widget TEXT NOT NULL,
			row_id TEXT NOT NULL,
			col TEXT NOT NULL,
			original TEXT NOT NULL,
			edited TEXT NOT NULL,
			saved_at INTEGER NOT NULL,
			PRIMARY KEY (batch, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_widget ON changes(widget, saved_at)`,
	}
	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Save persists one change set in a single transaction and returns the id
// of the batch. An empty change set writes nothing.
func (s *Store) Save(ctx context.Context, p changeset.SavePayload) (string, error) {
	if len(p.Changes) == 0 {
		return "", nil
	}
	batch := uuid.NewString()
	savedAt := s.now().UnixMilli()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, c := range p.Changes {
		original, err := c.Original.MarshalJSON()
		if err != nil {
			return "", fmt.Errorf("failed to encode original of %s/%s: %w", c.RowID, c.Column, err)
		}
		edited, err := c.Edited.MarshalJSON()
		if err != nil {
			return "", fmt.Errorf("failed to encode edit of %s/%s: %w", c.RowID, c.Column, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO changes (batch, seq, widget, row_id, col, original, edited, saved_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			batch, i, p.Widget, c.RowID, c.Column, string(original), string(edited), savedAt); err != nil {
			return "", fmt.Errorf("failed to insert change: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit change set: %w", err)
	}
	s.log.WithFields(logrus.Fields{"widget": p.Widget, "batch": batch, "changes": len(p.Changes)}).Info("Saved change set")
	return batch, nil
}

// History returns the saved edits of a widget, oldest first.
func (s *Store) History(ctx context.Context, widget string) ([]Saved, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT batch, widget, row_id, col, original, edited, saved_at FROM changes WHERE widget = ? ORDER BY saved_at, batch, seq`, widget)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []Saved
	for rows.Next() {
		var sv Saved
		var original, edited string
		var savedAt int64
		if err := rows.Scan(&sv.Batch, &sv.Widget, &sv.RowID, &sv.Column, &original, &edited, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		if sv.Original, err = records.ParseValue([]byte(original)); err != nil {
			return nil, fmt.Errorf("failed to decode original: %w", err)
		}
		if sv.Edited, err = records.ParseValue([]byte(edited)); err != nil {
			return nil, fmt.Errorf("failed to decode edit: %w", err)
		}
		sv.SavedAt = time.UnixMilli(savedAt)
		out = append(out, sv)
	}
	return out, rows.Err()
}

// Bind registers the store as the saveChanges handler of r.
func (s *Store) Bind(r *events.Registry) {
	r.Bind(events.SaveChanges, func(e events.Event) {
		p, ok := e.Payload.(changeset.SavePayload)
		if !ok {
			s.log.WithField("payload", fmt.Sprintf("%T", e.Payload)).Warn("Unexpected saveChanges payload")
			return
		}
		if _, err := s.Save(context.Background(), p); err != nil {
			s.log.WithError(err).WithField("widget", p.Widget).Error("Failed to save change set")
		}
	})
}
