package jsonrpc

// Partition splits items into contiguous chunks of ceil(len(items)/workers)
// elements, the last one possibly shorter. Chunks keep the input order and
// share the backing array of items. An empty input yields no chunks.
//
// workers must be positive; it is validated once at startup.
func Partition[T any](items []T, workers int) [][]T {
	if workers <= 0 {
		panic("jsonrpc: partition: workers must be positive")
	}
	if len(items) == 0 {
		return nil
	}

	size := (len(items) + workers - 1) / workers
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
