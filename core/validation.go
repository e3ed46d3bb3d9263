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


package core

import "fmt"

// ValidateRecord validates a Record prior to storage.
//
// Validation rules:
//   - ExternalID must not be empty
//   - Text must not be empty (text-less records are filtered out before the
//     embedding stage and never reach storage)
//   - Timestamp must be set
//
// NOT validated:
//   - Vector (records may legitimately be stored without an embedding, e.g.
//     by maintenance tooling; search excludes them)
//   - AuthorID and ContainerID (optional)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.ExternalID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyExternalID)
	}

	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyText)
	}

	if record.Timestamp.IsZero() {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrZeroTimestamp)
	}

	return nil
}

// ValidateAnalysis validates an Analysis prior to storage.
func ValidateAnalysis(analysis *Analysis) error {
	if analysis == nil {
		return fmt.Errorf("%w: analysis is nil", ErrInvalidAnalysis)
	}

	if analysis.Kind == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAnalysis, ErrEmptyAnalysisKind)
	}

	if analysis.Result == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAnalysis, ErrEmptyAnalysisResult)
	}

	return nil
}
