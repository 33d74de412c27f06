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

package paging

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/google/tablegrid/core/records"
)

// DefaultCacheSize is the number of windows a Pager remembers
const DefaultCacheSize = 64

// Pager memoizes Window on the identity of the data (its version) and the
// pagination request. A data source bumps its version whenever its records
// change, which invalidates every cached window for it.
type Pager struct {
	cache *lru.Cache[uint64, DataWindow]
	log   *logrus.Entry
}

// NewPager creates a pager remembering up to size windows
func NewPager(size int) (*Pager, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[uint64, DataWindow](size)
	if err != nil {
		return nil, err
	}
	return &Pager{
		cache: cache,
		log:   logrus.WithField("component", "paging"),
	}, nil
}

// Window returns the memoized window for (source, version, p), computing it
// on a miss. source distinguishes data sets sharing a pager.
func (pg *Pager) Window(source string, version uint64, data []records.Record, p Pagination) DataWindow {
	key := fingerprint(source, version, len(data), p)
	if w, ok := pg.cache.Get(key); ok {
		return w
	}
	w := Window(data, p)
	if w.Current != p.Current {
		pg.log.WithFields(logrus.Fields{
			"source":    source,
			"requested": p.Current,
			"total":     w.Total,
		}).Debug("stale page reset to 1")
	}
	pg.cache.Add(key, w)
	return w
}

// Purge drops every memoized window
func (pg *Pager) Purge() {
	pg.cache.Purge()
}

// Len returns the number of memoized windows
func (pg *Pager) Len() int {
	return pg.cache.Len()
}

func fingerprint(source string, version uint64, n int, p Pagination) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(source)
	var buf [8]byte
	for _, v := range []uint64{version, uint64(n), uint64(p.Current), uint64(p.PageSize), uint64(p.Total)} {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
