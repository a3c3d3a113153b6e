package ports

// Analytics records usage events. Implementations must never block on
// delivery; call sites treat failures as non-fatal.
type Analytics interface {
	TrackEvent(category, action, label string) error
}
