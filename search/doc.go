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


// Package search provides semantic retrieval over stored records.
//
// The Searcher embeds the query text once, asks the store for the k nearest
// records under the store's configured distance metric, and maps them to
// presentation Results. Ranking always happens over the complete stored
// text; the excerpt is truncated only after ranking so that presentation
// never changes the ordering.
//
// A failed query embedding aborts the search entirely (ErrQueryEmbedding);
// there are no partial results. An empty corpus is not an error.
package search
