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

package demo

import (
	"bufio"
	"fmt"
	"io"
)

// Performance test configuration - easily modifiable cardinality
const (
	PerfNumTransactions = 20_000
	PerfNumUsers        = 16_000 // High cardinality: 80% unique (1.25 txns per user avg)
	PerfNumProducts     = 1_000  // Medium cardinality: (20 txns per product avg)
)

// WriteTransactions writes n deterministic transactions as a JSON array
func WriteTransactions(w io.Writer, n int) error {
	statuses := []string{"pending", "completed", "cancelled", "processing"}

	bw := bufio.NewWriter(w)
	bw.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			bw.WriteString(",")
		}
		// Amount: deterministic but varied
		amount := 10 + i%1000
		fmt.Fprintf(bw, "\n{\"txn_id\":%d,\"user_id\":%d,\"product_id\":%d,\"status\":%q,\"amount\":%d}",
			i, i%PerfNumUsers, i%PerfNumProducts, statuses[i%len(statuses)], amount)
	}
	bw.WriteString("\n]\n")
	return bw.Flush()
}
