package main

import (
	"reflect"
	"testing"
	"time"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []key
	}{
		{"options", "1234", []key{keyOption1, keyOption2, keyOption3, keyOption4}},
		{"enter", "\r", []key{keyNext}},
		{"arrows", "\x1b[C\x1b[D", []key{keyRight, keyLeft}},
		{"up arrow ignored", "\x1b[A", nil},
		{"ctrl-c quits", "\x03", []key{keyQuit}},
		{"mixed", "2\r\x1b[Cq", []key{keyOption2, keyNext, keyRight, keyQuit}},
		{"unknown ignored", "xyz5", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeKeys([]byte(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeKeys(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAwaitDismiss(t *testing.T) {
	keys := make(chan []key, 4)
	done := make(chan struct{})
	go func() {
		awaitDismiss(keys)
		close(done)
	}()

	keys <- []key{keyRight, keyLeft}
	keys <- []key{keyOption1, keyPause}
	select {
	case <-done:
		t.Fatal("dialog closed on a key other than Enter")
	case <-time.After(50 * time.Millisecond):
	}

	keys <- []key{keyNext}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dialog did not close on Enter")
	}
}

func TestAwaitDismissInputClosed(t *testing.T) {
	keys := make(chan []key)
	close(keys)
	awaitDismiss(keys)
}
