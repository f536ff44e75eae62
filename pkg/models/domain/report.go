package domain

// Document is the format independent form of a rendered report.
// Every writer serializes the same tree, so all formats carry the same text.
type Document struct {
	Title     string // "Weekly Sales Report - Week 20 (May 9th - May 15th, 2025)"
	PageTitle string // "Weekly Sales Report - Week 20", used for browser tabs and metadata
	Blocks    []Block
}

// BlockKind selects how a block is laid out.
type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockHeading
	BlockParagraph
	BlockBulletList
	BlockNumberedList
)

func (k BlockKind) String() string {
	switch k {
	case BlockTitle:
		return "title"
	case BlockHeading:
		return "heading"
	case BlockParagraph:
		return "paragraph"
	case BlockBulletList:
		return "bullet_list"
	case BlockNumberedList:
		return "numbered_list"
	default:
		return "unknown"
	}
}

// Block is one top level element of a document.
//
// For headings Level is 2 or 3. Paragraph lines are kept in one paragraph,
// separated by line breaks; list lines are one item each.
type Block struct {
	Kind     BlockKind
	Level    int
	Bulleted bool // paragraph lines are prefixed with a bullet
	Lines    []Line
}

// Line is a sequence of styled runs.
type Line struct {
	Runs []Run
}

// Tone marks runs whose styling depends on the sign of a figure.
type Tone int

const (
	ToneNone Tone = iota
	ToneNegative
	TonePositive
)

func (t Tone) String() string {
	switch t {
	case ToneNegative:
		return "negative"
	case TonePositive:
		return "positive"
	default:
		return ""
	}
}

// Run is a piece of text with uniform styling.
type Run struct {
	Text string
	Bold bool
	Tone Tone
}

// Text concatenates the runs of a line.
func (l Line) Text() string {
	var n int
	for _, r := range l.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range l.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// PlainLine builds a single run line.
func PlainLine(text string) Line {
	return Line{Runs: []Run{{Text: text}}}
}

// Headings returns the text of every heading of the given level, in order.
func (d *Document) Headings(level int) []string {
	var out []string
	for _, b := range d.Blocks {
		if b.Kind == BlockHeading && b.Level == level && len(b.Lines) > 0 {
			out = append(out, b.Lines[0].Text())
		}
	}
	return out
}

// Section returns the blocks following the level 2 heading with the given
// text, up to the next level 2 heading.
func (d *Document) Section(heading string) []Block {
	start := -1
	for i, b := range d.Blocks {
		isSection := b.Kind == BlockHeading && b.Level == 2
		if start >= 0 && isSection {
			return d.Blocks[start:i]
		}
		if isSection && len(b.Lines) > 0 && b.Lines[0].Text() == heading {
			start = i + 1
		}
	}
	if start < 0 {
		return nil
	}
	return d.Blocks[start:]
}
