package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxReports bounds the number of reports kept. The oldest report is
// evicted first. Zero or negative keeps every report.
func WithMaxReports(n int) Option {
	return func(s *MemoryStore) {
		s.maxReports = n
	}
}
