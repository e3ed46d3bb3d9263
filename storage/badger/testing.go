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


package badger

import "github.com/sothis-labs/recollect/storage"

// NewMemoryRepositories creates in-memory record and analysis repositories
// for testing, using the L2 metric.
// Caller must close both repos and the backend when done.
func NewMemoryRepositories() (storage.RecordRepository, storage.AnalysisRepository, *Backend, error) {
	backend, err := OpenBackend("", true, MetricL2)
	if err != nil {
		return nil, nil, nil, err
	}

	recordRepo, err := NewRecordRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	analysisRepo, err := NewAnalysisRepository(backend)
	if err != nil {
		recordRepo.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return recordRepo, analysisRepo, backend, nil
}
