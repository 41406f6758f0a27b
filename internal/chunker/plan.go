// Package chunker plans and executes the splitting of a long audio file into
// fixed-length, optionally speed-adjusted segments.
package chunker

import "math"

// Chunk is one planned output segment.
type Chunk struct {
	// Index is the 1-based chunk number, also used in the output filename.
	Index int
	// StartSec is the segment start offset in seconds from the beginning of
	// the source file.
	StartSec float64
	// DurationSec is the segment length in seconds. The final chunk is
	// clipped to the remaining source length.
	DurationSec float64
}

// Plan is the ordered sequence of chunks a run will produce.
type Plan []Chunk

// TotalChunks returns the number of whole-file chunks a source of
// totalSec seconds yields at chunkSeconds per chunk.
func TotalChunks(totalSec float64, chunkSeconds int) int {
	return int(math.Ceil(totalSec / float64(chunkSeconds)))
}

// BuildPlan computes the chunk sequence for a source of totalSec seconds.
//
// chunkMinutes is the nominal chunk length in minutes, startChunk the 1-based
// first chunk to produce, and maxChunks limits how many chunks are produced
// (0 means no limit). Chunks are contiguous and non-overlapping; the last one
// is clipped so that StartSec+DurationSec never exceeds totalSec. A
// startChunk past the end of the file yields an empty plan, not an error.
func BuildPlan(totalSec float64, chunkMinutes, startChunk, maxChunks int) Plan {
	chunkSeconds := chunkMinutes * 60
	totalChunks := TotalChunks(totalSec, chunkSeconds)

	if maxChunks > 0 {
		if last := startChunk + maxChunks - 1; last < totalChunks {
			totalChunks = last
		}
	}

	var plan Plan
	for i := startChunk; i <= totalChunks; i++ {
		start := float64(i-1) * float64(chunkSeconds)
		plan = append(plan, Chunk{
			Index:       i,
			StartSec:    start,
			DurationSec: math.Min(float64(chunkSeconds), totalSec-start),
		})
	}
	return plan
}
