//go:build !unix

package main

import "os"

// pauseSignal is unset where SIGUSR1 does not exist.
var pauseSignal os.Signal
