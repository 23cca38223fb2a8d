// Package logtail reads the tail of line-oriented files.
//
// Read keeps the last N lines of a file in a ring buffer, so memory stays at
// O(N) no matter how large the file is. Files compressed with gzip or zstd
// are detected by their magic bytes and inflated on the fly.
//
// ReadRecords builds on Read to import NDJSON entity dumps, one
// entity.Record per line:
//
//	imp, err := logtail.ReadRecords("session.ndjson.zst", 5000)
//	if err != nil {
//		return err
//	}
//	for _, rec := range imp.Records {
//		_, _ = w.Insert(ctx, rec.Entity())
//	}
//
// A missing file is not an error; it simply has no lines.
package logtail
