// Why this file: ./display/progress.go
// This shows an indeterminate spinner while the router is working.
package display

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner wraps an indeterminate progress indicator shown while routing
type Spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
}

// StartSpinner starts an indeterminate spinner with the given label
func StartSpinner(label string) *Spinner {
	s := &Spinner{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetDescription(label),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		),
		done: make(chan struct{}),
	}
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.bar.Add(1)
			}
		}
	}()
	return s
}

// Stop stops the spinner and clears it from the terminal
func (s *Spinner) Stop() {
	close(s.done)
	s.bar.Finish()
	fmt.Print("\r")
}
