// SPDX-License-Identifier: ISC

// background process management
//
// run a fixed set of goroutines with a common shutdown signal and wait
// for all of them on stop
package background

// Process - type signature for a background process
//
// the process must return promptly once the shutdown channel closes
type Process func(args interface{}, shutdown <-chan struct{})

// Processes - list of processes to start
type Processes []Process

// T - handle to a running set of background processes
type T struct {
	shutdown chan struct{}
	finished chan struct{}
	count    int
}

// Start - run a set of background processes
func Start(processes Processes, args interface{}) *T {
	register := &T{
		shutdown: make(chan struct{}),
		finished: make(chan struct{}, len(processes)),
		count:    len(processes),
	}

	for _, p := range processes {
		go func(p Process) {
			defer func() { register.finished <- struct{}{} }()
			p(args, register.shutdown)
		}(p)
	}
	return register
}

// Stop - signal shutdown and wait for all processes to finish
func (t *T) Stop() {
	if nil == t {
		return
	}
	close(t.shutdown)
	for i := 0; i < t.count; i += 1 {
		<-t.finished
	}
}
