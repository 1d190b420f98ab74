package engine

import "sync"

// CancelToken is a cooperative cancellation signal.
// Loops check it between iterations; in-flight platform calls are never interrupted.
type CancelToken struct {
	once sync.Once
	done chan struct{}
}

// NewCancelToken creates an untriggered token
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel triggers the token. Repeated calls are no-ops.
func (t *CancelToken) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.done) })
}

// Canceled reports whether the token was triggered
func (t *CancelToken) Canceled() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed on cancellation. A nil token never fires.
func (t *CancelToken) Done() <-chan struct{} {
	if t == nil {
		return nil
	}
	return t.done
}
