// Package batch implements bounded, paced chunk processing of a stream.
//
// A Processor pulls items from a Source, buffers up to Size of them and hands
// each full chunk to a Handler before reading on, so memory stays bounded by
// the chunk size. After every item, once any chunk it completed has been
// handled, the processor pauses ItemDelayMs, which paces the upstream reader. The final partial chunk is flushed when the source ends.
//
// CSVSource adapts a CSV file with a header row to a Source of Records.
//
//	src, _ := batch.NewCSVSource(f)
//	p := batch.New(cfg.Batch, func(ctx context.Context, recs []batch.Record) error {
//	    return nil
//	}, logger)
//	stats, err := p.Run(ctx, src)
package batch
