package main

// key is one decoded keypress of the quiz screen.
type key int

const (
	keyNone key = iota
	keyOption1
	keyOption2
	keyOption3
	keyOption4
	keyNext
	keyLeft
	keyRight
	keyPause
	keyQuit
)

// decodeKeys splits a raw-mode read into keys. Arrow keys arrive as the
// escape sequences ESC [ C and ESC [ D.
func decodeKeys(buf []byte) []key {
	var keys []key
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b == 0x1b && i+2 < len(buf) && buf[i+1] == '[':
			switch buf[i+2] {
			case 'C':
				keys = append(keys, keyRight)
			case 'D':
				keys = append(keys, keyLeft)
			}
			i += 2
		case b >= '1' && b <= '4':
			keys = append(keys, keyOption1+key(b-'1'))
		case b == '\r' || b == '\n':
			keys = append(keys, keyNext)
		case b == 'p' || b == 'P':
			keys = append(keys, keyPause)
		case b == 'q' || b == 'Q' || b == 0x03:
			keys = append(keys, keyQuit)
		}
	}
	return keys
}

// awaitDismiss blocks until Enter closes the result dialog. Quit or a closed
// input also return; every other key is ignored.
func awaitDismiss(keys <-chan []key) {
	for batch := range keys {
		for _, k := range batch {
			if k == keyNext || k == keyQuit {
				return
			}
		}
	}
}
