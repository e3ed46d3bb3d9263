// Copyright 2025 Sothis Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ingestion implements the batch ingestion pipeline.
//
// An Ingestor pulls up to a configured limit of records from a source,
// splits them into contiguous batches, and runs each batch through a fixed
// sequence: filter records without text, embed the remaining texts in a
// single provider call, then insert each record unless its external ID is
// already stored.
//
// # Failure semantics
//
// Only the fetch itself can fail an ingestion run (ErrFetchFailed). Once
// records are in hand the run is best-effort: an embedding failure costs
// that one batch, a store failure costs that one record, and everything
// else proceeds. The returned core.Stats accounts for every fetched record
// as stored, already present, skipped, or errored.
//
// Duplicate handling is idempotent by construction. Records are keyed by
// external ID, so re-ingesting an overlapping window counts the overlap as
// AlreadyExists and changes nothing in the store. The pre-insert lookup is
// an optimization: the store's uniqueness constraint is what actually
// guarantees single insertion, including across concurrent workers.
//
// # Concurrency
//
// By default batches run sequentially in presentation order. With
// WithWorkers(n > 1) batches run on a bounded goroutine pool and the batch
// statistics are merged under a mutex. Counters are order-independent, so
// the final Stats do not depend on scheduling.
package ingestion
