package faultshield

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestGuardRecoversFaultingTouch(t *testing.T) {
	var fault *uint32
	err := Guard(func() {
		_ = *fault
	})
	assert.True(t, errors.Is(err, ErrFault))
}

func TestGuardLetsOrdinaryPanicsThrough(t *testing.T) {
	assert.Panics(t, func() {
		_ = Guard(func() { panic("not a fault") })
	})
}

func TestInstallBackstopCatchesSIGBUS(t *testing.T) {
	fired := make(chan struct{})
	stop := InstallBackstop(func() { close(fired) })
	defer stop()

	assert.NoError(t, unix.Kill(os.Getpid(), unix.SIGBUS))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("backstop did not observe the signal in time")
	}
}

