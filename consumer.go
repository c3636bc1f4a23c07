//go:generate mockgen -source=consumer.go -destination=mocks/mock_consumer.go -package=mocks

package gcstats

// Consumer receives one Stats value per collection cycle.
type Consumer interface {
	HandleGCStats(s Stats) error
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(s Stats) error

// HandleGCStats calls f(s).
func (f ConsumerFunc) HandleGCStats(s Stats) error { return f(s) }
