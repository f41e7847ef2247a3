package clip

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.design/x/clipboard"
)

func stubLibrary(t *testing.T, serves bool, write func(clipboard.Format, []byte) <-chan struct{}) {
	t.Helper()
	origWrite, origServes := clipboardWrite, servesSelection
	t.Cleanup(func() { clipboardWrite, servesSelection = origWrite, origServes })
	clipboardWrite, servesSelection = write, serves
}

func TestLibraryWriteRejectedIsWriteFailed(t *testing.T) {
	stubLibrary(t, true, func(clipboard.Format, []byte) <-chan struct{} { return nil })

	err := libraryWrite(context.Background(), TextMIME, []byte("payload"))
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestLibraryWriteUnsupportedMIME(t *testing.T) {
	stubLibrary(t, false, func(clipboard.Format, []byte) <-chan struct{} {
		t.Fatal("write must not be attempted")
		return nil
	})

	err := libraryWrite(context.Background(), "image/jpeg", []byte{1})
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestLibraryWriteServesUntilOwnershipLost(t *testing.T) {
	done := make(chan struct{})
	var gotFormat clipboard.Format
	stubLibrary(t, true, func(f clipboard.Format, _ []byte) <-chan struct{} {
		gotFormat = f
		return done
	})

	errc := make(chan error, 1)
	go func() { errc <- libraryWrite(context.Background(), "image/png", []byte{1}) }()

	select {
	case <-errc:
		t.Fatal("returned before the selection was taken over")
	case <-time.After(50 * time.Millisecond):
	}
	close(done)
	require.NoError(t, <-errc)
	assert.Equal(t, clipboard.FmtImage, gotFormat)
}

func TestLibraryWriteStopsOnCancel(t *testing.T) {
	stubLibrary(t, true, func(clipboard.Format, []byte) <-chan struct{} { return make(chan struct{}) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, libraryWrite(ctx, TextMIME, []byte("x")))
}

func TestLibraryWriteReturnsImmediatelyWhenNotServing(t *testing.T) {
	stubLibrary(t, false, func(clipboard.Format, []byte) <-chan struct{} { return make(chan struct{}) })

	assert.NoError(t, libraryWrite(context.Background(), TextMIME, []byte("x")))
}
