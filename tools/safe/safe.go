package safe

import (
	"ChatLink/logger"
)

// Go starts a goroutine that recovers from panics, so a background write
// (presence update, mirror refresh) can never take the process down.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] panic recovered: %v", r)
			}
		}()
		f()
	}()
}
