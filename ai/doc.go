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


// Package ai provides abstractions for AI services used in Recollect.
//
// This package defines interfaces for AI operations including text embeddings
// and completions. It follows the dependency inversion principle, allowing
// the ingestion, search, and analysis layers to depend on abstractions rather
// than concrete implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Completer: Produces free-form completions for analysis prompts
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.Provider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockCompleter)
// return CONCRETE types to enable test assertions and behavior injection via
// the mock's public fields and methods (CallCount, EmbedTextsFunc, Reset, etc.).
//
//	mockEmbed := mock.NewMockEmbedder()   // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextsFunc = ...        // needs concrete type
//	count := mockEmbed.CallCount()        // test assertion
//
// # Configuration
//
// Use NewConfig with functional options to configure the services:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),
//	    ai.WithEmbeddingModel("nomic-embed-text"),
//	    ai.WithCompletionModel("llama3.1:8b"),
//	)
//
// Config.Validate normalizes host URLs (appending /v1 when missing) before
// checking required fields, so callers may pass bare Ollama host URLs.
package ai
