package raster

// workerMask collects the surface rows assigned to a worker goroutine.
type workerMask struct {
	rows []int
}

// assignRowMasks deals rows to workers round robin.
func assignRowMasks(workerCount, height int) []workerMask {
	if workerCount < 1 {
		workerCount = 1
	}
	masks := make([]workerMask, workerCount)
	for y := 0; y < height; y++ {
		idx := y % workerCount
		masks[idx].rows = append(masks[idx].rows, y)
	}
	return masks
}
