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


// Package source defines the fetch boundary for ingestion.
//
// A Source delivers already-decoded records from some external system. The
// ingestion pipeline treats sources as opaque collaborators: it asks for up
// to N records and deduplicates whatever comes back, so sources are free to
// return overlapping windows across calls.
//
// Implementations in this module:
//
//   - Slice: a fixed in-memory record list, used by tests and seeding
//   - JSONL: reads exported chat archives, one JSON object per line
//   - telegram.Collector (sub-package): buffers live Telegram bot updates
package source
