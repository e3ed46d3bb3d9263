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


package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/sothis-labs/recollect/core"
)

const defaultBufferSize = 1000

// Collector is a source.Source that buffers live Telegram messages.
//
// The bot long-polls Telegram in the background and appends each text
// message to a bounded ring buffer; when the buffer is full the oldest
// entries are dropped. FetchRecords returns the newest buffered records
// without draining the buffer, so overlapping fetch windows are expected
// and resolved by the ingestion pipeline's deduplication.
type Collector struct {
	token      string
	bufferSize int
	logger     *slog.Logger

	mu     sync.Mutex
	buffer []*core.Record
	bot    *bot.Bot
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithBufferSize sets the maximum number of buffered records.
func WithBufferSize(n int) CollectorOption {
	return func(c *Collector) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithLogger sets the collector's logger.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = logger
	}
}

// NewCollector creates a collector for the bot identified by token.
// The bot is not started until Start is called.
func NewCollector(token string, opts ...CollectorOption) *Collector {
	c := &Collector{
		token:      token,
		bufferSize: defaultBufferSize,
		logger:     slog.Default().With("component", "telegram-collector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start creates the bot and long-polls Telegram until ctx is cancelled.
// It blocks; run it in a goroutine alongside a periodic ingestion loop.
func (c *Collector) Start(ctx context.Context) error {
	b, err := bot.New(c.token, bot.WithDefaultHandler(c.HandleUpdate))
	if err != nil {
		return fmt.Errorf("creating telegram bot: %w", err)
	}

	c.mu.Lock()
	c.bot = b
	c.mu.Unlock()

	c.logger.Info("telegram collector started", "buffer_size", c.bufferSize)
	b.Start(ctx)
	c.logger.Info("telegram collector stopped")
	return nil
}

// HandleUpdate buffers one incoming Telegram update. Non-message updates
// and messages without text are ignored.
func (c *Collector) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	msg := update.Message

	rec := &core.Record{
		ExternalID:  fmt.Sprintf("%d:%d", msg.Chat.ID, msg.ID),
		ContainerID: strconv.FormatInt(msg.Chat.ID, 10),
		Text:        msg.Text,
		Timestamp:   time.Unix(int64(msg.Date), 0).UTC(),
	}
	if msg.From != nil {
		rec.AuthorID = strconv.FormatInt(msg.From.ID, 10)
	}

	c.mu.Lock()
	c.buffer = append(c.buffer, rec)
	if len(c.buffer) > c.bufferSize {
		// Drop oldest; copy so the backing array doesn't grow unbounded.
		overflow := len(c.buffer) - c.bufferSize
		c.buffer = append([]*core.Record(nil), c.buffer[overflow:]...)
	}
	buffered := len(c.buffer)
	c.mu.Unlock()

	c.logger.Debug("buffered message",
		"external_id", rec.ExternalID, "buffered", buffered)
}

// FetchRecords returns up to limit of the newest buffered records, oldest
// first. The buffer is not drained: records stay eligible for subsequent
// fetches and deduplication makes the overlap harmless.
func (c *Collector) FetchRecords(ctx context.Context, containerID string, limit int) ([]*core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	matched := make([]*core.Record, 0, len(c.buffer))
	for _, rec := range c.buffer {
		if containerID != "" && rec.ContainerID != containerID {
			continue
		}
		matched = append(matched, rec)
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	out := make([]*core.Record, len(matched))
	copy(out, matched)
	return out, nil
}

// Buffered returns the current number of buffered records.
func (c *Collector) Buffered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buffer)
}
