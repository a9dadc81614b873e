package lines

// DefaultBucketSize is the number of lines per bucket in a Paged version.
const DefaultBucketSize = 50

// settings holds construction options.
type settings struct {
	bucketSize int
}

func defaultSettings() settings {
	return settings{bucketSize: DefaultBucketSize}
}

// Option configures Version construction.
type Option func(*settings)

// WithBucketSize sets the bucket capacity of Paged versions.
// Non-positive values are ignored.
func WithBucketSize(size int) Option {
	return func(s *settings) {
		if size > 0 {
			s.bucketSize = size
		}
	}
}
