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

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidAnalysis indicates an Analysis failed validation.
	ErrInvalidAnalysis = errors.New("invalid analysis")

	// ErrEmptyExternalID indicates the ExternalID field is empty.
	ErrEmptyExternalID = errors.New("external id cannot be empty")

	// ErrZeroTimestamp indicates the Timestamp field is unset.
	ErrZeroTimestamp = errors.New("timestamp is required")

	// ErrEmptyText indicates the Text field is empty where text is required.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyAnalysisKind indicates the analysis Kind field is empty.
	ErrEmptyAnalysisKind = errors.New("analysis kind cannot be empty")

	// ErrEmptyAnalysisResult indicates the analysis Result field is empty.
	ErrEmptyAnalysisResult = errors.New("analysis result cannot be empty")
)
