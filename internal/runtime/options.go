package runtime

type ServiceOption func(*ServiceCtx)

// WithWaitingForServer makes WaitForServer block until the HTTP listener is bound.
func WithWaitingForServer() ServiceOption {
	return func(c *ServiceCtx) {
		c.serverReady = make(chan struct{}, 1)
	}
}
