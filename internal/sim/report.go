package sim

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"tickpool/internal/model"
)

// ReadReports aggregates a pool event stream from a JSONL file into
// per-pool reports, sorted by pool address. poolFilter narrows the stream
// to one pool; empty means all pools. Malformed lines are returned as
// record errors rather than failing the read, and replayed duplicates of
// the same pool and sequence are counted once.
func ReadReports(path, poolFilter string, logger *zap.Logger) ([]model.PoolReport, []model.RecordError, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var filter string
	if poolFilter != "" {
		addr, err := ParseAddress(poolFilter)
		if err != nil {
			return nil, nil, fmt.Errorf("pool filter: %w", err)
		}
		filter = strings.ToLower(addr.Hex())
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	accumulators := make(map[string]*reportAccumulator)
	seen := make(map[string]struct{})
	recordErrors := make([]model.RecordError, 0)
	var lineNo uint64
	var total, aggregated, skipped int

	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.PoolEventRecord
		if err := json.Unmarshal(line, &record); err != nil {
			recordErrors = append(recordErrors, model.RecordError{Line: lineNo, Error: err.Error()})
			logger.Warn("decode pool event", zap.Error(err), zap.Uint64("line", lineNo))
			continue
		}

		key := strings.ToLower(record.Pool)
		if filter != "" && key != filter {
			skipped++
			continue
		}

		id := fmt.Sprintf("%s:%d", key, record.Sequence)
		if _, ok := seen[id]; ok {
			skipped++
			continue
		}
		seen[id] = struct{}{}

		acc := accumulators[key]
		if acc == nil {
			acc = newReportAccumulator(record.Pool)
			accumulators[key] = acc
		}

		if err := acc.addEvent(record); err != nil {
			recordErrors = append(recordErrors, model.RecordError{Line: lineNo, Error: err.Error()})
			logger.Warn("aggregate pool event", zap.Error(err), zap.String("pool", record.Pool), zap.String("event", record.EventName))
			continue
		}
		aggregated++
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan input: %w", err)
	}

	reports := make([]model.PoolReport, 0, len(accumulators))
	for _, acc := range accumulators {
		report := acc.report()
		report.SkippedLines = uint64(len(recordErrors))
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Pool < reports[j].Pool })

	logger.Info("report complete",
		zap.Int("total", total),
		zap.Int("aggregated", aggregated),
		zap.Int("skipped", skipped),
		zap.Int("failed", len(recordErrors)),
	)

	return reports, recordErrors, nil
}
