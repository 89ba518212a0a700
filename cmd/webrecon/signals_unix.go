//go:build unix

package main

import (
	"os"
	"syscall"
)

// pauseSignal toggles pause and resume of running jobs.
var pauseSignal os.Signal = syscall.SIGUSR1
