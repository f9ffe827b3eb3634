//go:build amd64

package mem

const (
	// PageShift is equal to log2(PageSize). It converts between physical
	// addresses and page frame numbers.
	PageShift = 12

	// PageSize defines the system's page size in bytes. It matches the
	// 4KiB page granularity of firmware memory descriptors.
	PageSize = Size(1 << PageShift)
)
