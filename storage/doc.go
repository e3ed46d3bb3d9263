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


// Package storage provides the storage abstraction layer for recollect.
//
// It defines repository interfaces that decouple the corpus store from the
// ingestion and search logic, so different backends (BadgerDB, in-memory)
// can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the interfaces from this package:
//
//	repo, err := badger.NewRecordRepository(backend)  // storage.RecordRepository
//
// Internal constructors may return concrete types since they are only used
// within the implementation package.
//
// # Uniqueness
//
// The record repository enforces a uniqueness constraint on the external
// identifier. InsertRecord returns ErrDuplicateKey for a repeated external
// ID, including when two concurrent writers race on the same ID. That
// constraint, not any prior existence check, is the authoritative
// at-most-once guarantee for ingestion.
//
// # Thread Safety
//
// All repository implementations must be safe for concurrent use from
// multiple goroutines.
package storage
