package gopool

import (
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
)

// Shared worker pool for embarrassingly parallel compiler work, sized for
// short CPU-bound tasks such as per-block reduction.
var (
	defaultPool, _   = ants.NewPool(ants.DefaultAntsPoolSize, ants.WithExpiryDuration(10*time.Second))
	minBlocksPerTask = 4
)

// Submit schedules a task on the shared pool.
func Submit(task func()) error {
	return defaultPool.Submit(task)
}

// Running returns the number of currently running workers.
func Running() int {
	return defaultPool.Running()
}

// Free returns the number of available workers.
func Free() int {
	return defaultPool.Free()
}

// Release closes the shared pool.
func Release() {
	defaultPool.Release()
}

// Reboot restarts a released pool.
func Reboot() {
	defaultPool.Reboot()
}

// Threads suggests a worker count for a batch of independent tasks.
func Threads(tasks int) int {
	threads := tasks / minBlocksPerTask
	if threads > runtime.NumCPU() {
		threads = runtime.NumCPU()
	} else if threads == 0 {
		threads = 1
	}
	return threads
}
