package sim

import "fmt"

// StepRange represents an inclusive range of scenario step numbers.
type StepRange struct {
	From uint64
	To   uint64
}

// SplitSteps splits a step range into batches of size batchSize.
func SplitSteps(from, to, batchSize uint64) ([]StepRange, error) {
	if batchSize == 0 {
		return nil, fmt.Errorf("batch size must be greater than zero")
	}
	if to < from {
		return nil, fmt.Errorf("to step must be >= from step")
	}

	ranges := make([]StepRange, 0)
	start := from
	for start <= to {
		remaining := to - start + 1
		var end uint64
		if remaining <= batchSize {
			end = to
		} else {
			end = start + batchSize - 1
		}
		ranges = append(ranges, StepRange{From: start, To: end})
		if end == to {
			break
		}
		start = end + 1
	}

	return ranges, nil
}
