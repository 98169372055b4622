//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf, _ := startListing(t, 5, "")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	require.NoError(t, tf.Quit())

	select {
	case exitErr := <-done:
		require.NoError(t, exitErr, "q should exit cleanly")
		tf.cmd = nil
		return
	case <-time.After(1500 * time.Millisecond):
		t.Logf("'q' didn't work within 1.5 seconds, using Ctrl+C")
		_ = tf.SendCtrlC()
	}

	select {
	case <-done:
		tf.cmd = nil
		t.Fatal("application only exited after Ctrl+C")
	case <-time.After(2 * time.Second):
		t.Fatal("application did not exit")
	}
}
