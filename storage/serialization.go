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


package storage

import (
	"github.com/sothis-labs/recollect/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(record *core.Record) []byte {
	buf := make([]byte, core.RecordMUS.Size(*record))
	core.RecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (*core.Record, error) {
	record, _, err := core.RecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalAnalysis serializes an Analysis to bytes.
func MarshalAnalysis(analysis *core.Analysis) []byte {
	buf := make([]byte, core.AnalysisMUS.Size(*analysis))
	core.AnalysisMUS.Marshal(*analysis, buf)
	return buf
}

// UnmarshalAnalysis deserializes an Analysis from bytes.
func UnmarshalAnalysis(data []byte) (*core.Analysis, error) {
	analysis, _, err := core.AnalysisMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}
