package sim

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tickpool/internal/model"
	"tickpool/internal/pool"
)

func TestReadReports(t *testing.T) {
	poolA := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	poolB := "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	firstSwap := testEventLine(t, poolA, 2, "Swap", model.SwapEventData{
		Sender:       testAlice,
		Recipient:    testBob,
		Amount0:      "-999",
		Amount1:      "1000",
		SqrtPriceX96: "79307426238562063896002434142",
		Liquidity:    "1000000",
		Tick:         19,
	})
	lines := []string{
		testEventLine(t, poolA, 1, "Mint", model.MintEventData{
			Sender:    testAlice,
			Owner:     testAlice,
			TickLower: -600,
			TickUpper: 600,
			Amount:    "1000000",
			Amount0:   "30",
			Amount1:   "30",
		}),
		firstSwap,
		"",
		"{not-json",
		firstSwap,
		testEventLine(t, poolA, 3, "Swap", model.SwapEventData{
			Sender:       testAlice,
			Recipient:    testAlice,
			Amount0:      "500",
			Amount1:      "-498",
			SqrtPriceX96: "79228162514264337593543950336",
			Liquidity:    "1000000",
			Tick:         0,
		}),
		testEventLine(t, poolB, 1, "Mint", model.MintEventData{
			Sender:    testBob,
			Owner:     testBob,
			TickLower: -60,
			TickUpper: 60,
			Amount:    "500",
			Amount0:   "2",
			Amount1:   "2",
		}),
	}
	path := writeReportFixture(t, lines)

	reports, recordErrors, err := ReadReports(path, "", nil)
	if err != nil {
		t.Fatalf("read reports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Pool != poolA || reports[1].Pool != poolB {
		t.Fatalf("report order = %s, %s", reports[0].Pool, reports[1].Pool)
	}

	got := reports[0]
	if got.MintCount != 1 || got.SwapCount != 2 {
		t.Fatalf("counts = %d mints, %d swaps", got.MintCount, got.SwapCount)
	}
	if got.Volume0 != "1499" || got.Volume1 != "1498" {
		t.Fatalf("volumes = %s/%s, want 1499/1498", got.Volume0, got.Volume1)
	}
	if got.MintedLiquidity != "1000000" {
		t.Fatalf("minted liquidity = %s", got.MintedLiquidity)
	}
	if got.FinalSqrtPriceX96 != "79228162514264337593543950336" || got.FinalTick != 0 {
		t.Fatalf("final price = %s at tick %d", got.FinalSqrtPriceX96, got.FinalTick)
	}
	if got.FinalLiquidity != "1000000" {
		t.Fatalf("final liquidity = %s", got.FinalLiquidity)
	}
	if got.FirstSequence != 1 || got.LastSequence != 3 {
		t.Fatalf("sequence span = [%d, %d]", got.FirstSequence, got.LastSequence)
	}
	if got.SkippedLines != 1 {
		t.Fatalf("skipped lines = %d, want 1", got.SkippedLines)
	}

	if len(recordErrors) != 1 {
		t.Fatalf("got %d record errors, want 1", len(recordErrors))
	}
	if recordErrors[0].Line != 4 {
		t.Fatalf("record error line = %d, want 4", recordErrors[0].Line)
	}
}

func TestReadReportsFilter(t *testing.T) {
	poolA := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	poolB := "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	lines := []string{
		testEventLine(t, poolA, 1, "Mint", model.MintEventData{
			Owner: testAlice, TickLower: -60, TickUpper: 60, Amount: "1000",
		}),
		testEventLine(t, poolB, 1, "Mint", model.MintEventData{
			Owner: testBob, TickLower: -60, TickUpper: 60, Amount: "2000",
		}),
	}
	path := writeReportFixture(t, lines)

	reports, recordErrors, err := ReadReports(path, poolB, nil)
	if err != nil {
		t.Fatalf("read reports: %v", err)
	}
	if len(recordErrors) != 0 {
		t.Fatalf("got %d record errors", len(recordErrors))
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}
	if reports[0].Pool != poolB || reports[0].MintedLiquidity != "2000" {
		t.Fatalf("filtered report = %s with %s liquidity", reports[0].Pool, reports[0].MintedLiquidity)
	}
}

func TestReadReportsInputErrors(t *testing.T) {
	if _, _, err := ReadReports(filepath.Join(t.TempDir(), "absent.jsonl"), "", nil); err == nil {
		t.Fatal("expected error for missing input")
	}

	path := writeReportFixture(t, []string{})
	if _, _, err := ReadReports(path, "not-an-address", nil); err == nil {
		t.Fatal("expected error for bad pool filter")
	}
}

func testEventLine(t *testing.T, poolAddr string, sequence uint64, name string, decoded interface{}) string {
	t.Helper()
	topic, err := pool.EventTopic0(name)
	if err != nil {
		t.Fatalf("topic for %s: %v", name, err)
	}
	data, err := json.Marshal(model.PoolEvent{
		Sequence:  sequence,
		Pool:      poolAddr,
		EventName: name,
		Topic0:    topic,
		EmittedAt: "2024-05-01T00:00:00Z",
		Decoded:   decoded,
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return string(data)
}

func writeReportFixture(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
