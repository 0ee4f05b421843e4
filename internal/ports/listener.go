package ports

// Listener defines a network front end of the dashboard
type Listener interface {
	// Start starts serving in the background
	Start() error

	// Stop stops serving
	Stop() error
}
