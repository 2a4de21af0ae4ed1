package input

const (
	ctrlC = 3
	ctrlD = 4
	esc   = 27
)

// DecodeTerminal turns a chunk of raw terminal input into events, in order.
// Letters are matched case-insensitively. Arrow keys arrive as CSI
// (ESC [ A) or SS3 (ESC O A) sequences; other CSI sequences are skipped.
// A lone Escape, Ctrl-C and Ctrl-D are close requests. Anything else is
// dropped.
func DecodeTerminal(data []byte) []Event {
	var events []Event
	for i := 0; i < len(data); i++ {
		b := data[i]
		switch b {
		case 'a', 'A':
			events = append(events, Press(KeyA))
		case 'd', 'D':
			events = append(events, Press(KeyD))
		case 'w', 'W':
			events = append(events, Press(KeyW))
		case 's', 'S':
			events = append(events, Press(KeyS))
		case ctrlC, ctrlD:
			events = append(events, QuitEvent())
		case esc:
			if i+1 >= len(data) || (data[i+1] != '[' && data[i+1] != 'O') {
				events = append(events, QuitEvent())
				continue
			}
			// Skip parameter bytes up to the final byte.
			j := i + 2
			for j < len(data) && (data[j] < 0x40 || data[j] > 0x7e) {
				j++
			}
			if j >= len(data) {
				return events
			}
			if k, ok := arrowKey(data[j]); ok {
				events = append(events, Press(k))
			}
			i = j
		}
	}
	return events
}

func arrowKey(final byte) (Key, bool) {
	switch final {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return KeyOther, false
}
