package input

// State is the dispatcher state between bytes.
type State uint8

const (
	Normal State = iota
	// AwaitSecondKey follows a C-x prefix.
	AwaitSecondKey
	// AwaitMetaKey follows ESC.
	AwaitMetaKey
	// AwaitCSI follows ESC [.
	AwaitCSI
	// AwaitSS3 follows ESC O.
	AwaitSS3
	// Discard swallows the rest of an unusable escape sequence up to its
	// final byte.
	Discard
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case AwaitSecondKey:
		return "await-second-key"
	case AwaitMetaKey:
		return "await-meta-key"
	case AwaitCSI:
		return "await-csi"
	case AwaitSS3:
		return "await-ss3"
	case Discard:
		return "discard"
	}
	return "unknown"
}

const (
	esc      = 0x1b
	del      = 0x7f
	ctrlMask = 0x1f

	// MaxLookahead bounds the parameter bytes buffered inside an escape
	// sequence. Longer sequences are dropped.
	MaxLookahead = 8
)

var controlKeys = [32]Kind{
	0x00:           SetMark,
	'a' & ctrlMask: LineStart,
	'b' & ctrlMask: BackwardChar,
	'd' & ctrlMask: DeleteChar,
	'e' & ctrlMask: LineEnd,
	'f' & ctrlMask: ForwardChar,
	'g' & ctrlMask: Cancel,
	'h' & ctrlMask: Backspace,
	'k' & ctrlMask: KillLine,
	'l' & ctrlMask: Refresh,
	'n' & ctrlMask: NextLine,
	'o' & ctrlMask: OpenLine,
	'p' & ctrlMask: PrevLine,
	'r' & ctrlMask: SearchBackward,
	's' & ctrlMask: SearchForward,
	'v' & ctrlMask: PageDown,
	'w' & ctrlMask: KillRegion,
	'y' & ctrlMask: Yank,
}

var prefixKeys = map[byte]Kind{
	'f' & ctrlMask: OpenFile,
	's' & ctrlMask: SaveFile,
	'c' & ctrlMask: Quit,
	'w' & ctrlMask: WriteFile,
}

var metaKeys = map[byte]Kind{
	'w':            CopyRegion,
	'y':            Yank,
	'v':            PageUp,
	'f':            WordForward,
	'b':            WordBackward,
	'<':            BufferStart,
	'>':            BufferEnd,
	'c':            ToggleCase,
	esc:            Cancel,
	'g' & ctrlMask: Cancel,
}

// Decoder resolves a byte stream into Commands one byte at a time. It keeps
// no timers: a lone ESC waits for the next byte.
type Decoder struct {
	state   State
	prefix  byte
	seq     [MaxLookahead]byte
	n       int
	private bool
}

func (d *Decoder) State() State { return d.state }

// Reset drops any partial sequence.
func (d *Decoder) Reset() {
	d.state = Normal
	d.prefix = 0
	d.n = 0
	d.private = false
}

// Decode feeds every byte of p and appends the completed commands to dst.
func (d *Decoder) Decode(dst []Command, p []byte) []Command {
	for _, c := range p {
		if cmd, ok := d.Feed(c); ok {
			dst = append(dst, cmd)
		}
	}
	return dst
}

// Feed consumes one byte and reports the command it completes, if any.
func (d *Decoder) Feed(c byte) (Command, bool) {
	switch d.state {
	case AwaitSecondKey:
		d.Reset()
		if k, ok := prefixKeys[c]; ok {
			return Command{Kind: k}, true
		}
		return Command{}, false
	case AwaitMetaKey:
		return d.meta(c)
	case AwaitCSI, AwaitSS3:
		return d.sequence(c)
	case Discard:
		return d.discard(c)
	}
	return d.normal(c)
}

func (d *Decoder) normal(c byte) (Command, bool) {
	switch {
	case c == 'x'&ctrlMask:
		d.state = AwaitSecondKey
		d.prefix = c
		return Command{}, false
	case c == esc:
		d.state = AwaitMetaKey
		return Command{}, false
	case c == '\r' || c == '\n':
		return Command{Kind: Newline}, true
	case c == '\t':
		return Command{Kind: InsertByte, Byte: c}, true
	case c == del:
		return Command{Kind: Backspace}, true
	case c < 0x20:
		if k := controlKeys[c]; k != None {
			return Command{Kind: k}, true
		}
		return Command{}, false
	}
	return Command{Kind: InsertByte, Byte: c}, true
}

func (d *Decoder) meta(c byte) (Command, bool) {
	switch c {
	case '[':
		d.state, d.n = AwaitCSI, 0
		return Command{}, false
	case 'O':
		d.state, d.n = AwaitSS3, 0
		return Command{}, false
	}
	d.Reset()
	if k, ok := metaKeys[c]; ok {
		return Command{Kind: k}, true
	}
	return Command{}, false
}

func (d *Decoder) sequence(c byte) (Command, bool) {
	switch {
	case isFinal(c):
		k := None
		if !d.private {
			k = resolveSequence(d.seq[:d.n], c)
		}
		d.Reset()
		if k == None {
			return Command{}, false
		}
		return Command{Kind: k}, true
	case c >= '0' && c <= '?':
		// Parameter bytes; '<' '=' '>' '?' mark private sequences that
		// never map to a key.
		if d.n == MaxLookahead {
			d.Reset()
			d.state = Discard
			return Command{}, false
		}
		if c >= '<' {
			d.private = true
		}
		d.seq[d.n] = c
		d.n++
		return Command{}, false
	case c == esc:
		d.Reset()
		d.state = AwaitMetaKey
		return Command{}, false
	}
	// Intermediate or stray bytes: drop the sequence through its final byte.
	d.Reset()
	d.state = Discard
	return Command{}, false
}

func (d *Decoder) discard(c byte) (Command, bool) {
	switch {
	case isFinal(c):
		d.Reset()
	case c == esc:
		d.Reset()
		d.state = AwaitMetaKey
	}
	return Command{}, false
}

func isFinal(c byte) bool { return c >= 0x40 && c <= 0x7e }

// resolveSequence maps the parameters and final byte of a CSI or SS3
// sequence to a command. Modifier parameters ("1;5C") are ignored.
func resolveSequence(params []byte, final byte) Kind {
	switch final {
	case 'A':
		return PrevLine
	case 'B':
		return NextLine
	case 'C':
		return ForwardChar
	case 'D':
		return BackwardChar
	case 'H':
		return LineStart
	case 'F':
		return LineEnd
	case '~':
		switch string(firstParam(params)) {
		case "1", "7":
			return LineStart
		case "4", "8":
			return LineEnd
		case "3":
			return DeleteChar
		case "5":
			return PageUp
		case "6":
			return PageDown
		}
	}
	return None
}

func firstParam(params []byte) []byte {
	for i, c := range params {
		if c == ';' {
			return params[:i]
		}
	}
	return params
}
