// Package telegram provides a live Telegram message source.
//
// The Collector long-polls the Telegram Bot API via go-telegram/bot and
// buffers incoming text messages for periodic ingestion. A typical setup
// runs the collector and an ingestion loop side by side:
//
//	collector := telegram.NewCollector(token)
//	go collector.Start(ctx)
//
//	ticker := time.NewTicker(flushInterval)
//	for range ticker.C {
//	    stats, err := ingestor.Ingest(ctx, collector, containerID)
//	    ...
//	}
//
// The buffer is bounded and never drained by fetches; deduplication in the
// ingestion pipeline absorbs the overlapping windows.
package telegram
