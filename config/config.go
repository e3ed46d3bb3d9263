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


// Package config loads YAML configuration for the recollect CLI.
package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StoreConfig configures the record store.
type StoreConfig struct {
	// Path is the on-disk badger directory.
	Path string `yaml:"path"`

	// Metric selects the distance metric: "l2" (default) or "cosine".
	// Fixed per store; never change it without reembedding.
	Metric string `yaml:"metric"`
}

// AIConfig configures the embedding and completion services.
type AIConfig struct {
	EmbeddingHost   string `yaml:"embedding_host"`
	EmbeddingModel  string `yaml:"embedding_model"`
	CompletionHost  string `yaml:"completion_host"`
	CompletionModel string `yaml:"completion_model"`
	EmbeddingDims   int    `yaml:"embedding_dims"`
}

// IngestConfig configures ingestion runs.
type IngestConfig struct {
	Limit     int `yaml:"limit"`
	BatchSize int `yaml:"batch_size"`
	Workers   int `yaml:"workers"`
}

// TelegramConfig configures the live Telegram collector.
type TelegramConfig struct {
	Token                string `yaml:"token"`
	Container            string `yaml:"container"`
	BufferSize           int    `yaml:"buffer_size"`
	FlushIntervalSeconds int    `yaml:"flush_interval_seconds"`
}

// FlushInterval returns the collector flush interval as a time.Duration
func (t TelegramConfig) FlushInterval() time.Duration {
	return time.Duration(t.FlushIntervalSeconds) * time.Second
}

// Config is the root CLI configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	AI       AIConfig       `yaml:"ai"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path:   "recollect.db",
			Metric: "l2",
		},
		AI: AIConfig{
			EmbeddingHost:   "http://localhost:11434",
			EmbeddingModel:  "nomic-embed-text",
			CompletionHost:  "http://localhost:11434",
			CompletionModel: "llama3.1:8b",
			EmbeddingDims:   768,
		},
		Ingest: IngestConfig{
			Limit:     100,
			BatchSize: 10,
			Workers:   1,
		},
		Telegram: TelegramConfig{
			BufferSize:           1000,
			FlushIntervalSeconds: 60,
		},
	}
}

// Load reads a config from path. A missing file yields the defaults;
// a present file is merged over them, so partial configs are fine.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Store.Path == "" {
		cfg.Store.Path = def.Store.Path
	}
	if cfg.Store.Metric == "" {
		cfg.Store.Metric = def.Store.Metric
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = def.AI.EmbeddingHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = def.AI.EmbeddingModel
	}
	if cfg.AI.CompletionHost == "" {
		cfg.AI.CompletionHost = def.AI.CompletionHost
	}
	if cfg.AI.CompletionModel == "" {
		cfg.AI.CompletionModel = def.AI.CompletionModel
	}
	if cfg.AI.EmbeddingDims == 0 {
		cfg.AI.EmbeddingDims = def.AI.EmbeddingDims
	}
	if cfg.Ingest.Limit == 0 {
		cfg.Ingest.Limit = def.Ingest.Limit
	}
	if cfg.Ingest.BatchSize == 0 {
		cfg.Ingest.BatchSize = def.Ingest.BatchSize
	}
	if cfg.Ingest.Workers == 0 {
		cfg.Ingest.Workers = def.Ingest.Workers
	}
	if cfg.Telegram.BufferSize == 0 {
		cfg.Telegram.BufferSize = def.Telegram.BufferSize
	}
	if cfg.Telegram.FlushIntervalSeconds == 0 {
		cfg.Telegram.FlushIntervalSeconds = def.Telegram.FlushIntervalSeconds
	}
}
