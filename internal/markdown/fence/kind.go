package fence

import "strings"

// Kind is the closed set of fenced block kinds the renderer recognizes.
type Kind int

const (
	// KindDefault is rendered unchanged by the fallback renderer.
	KindDefault Kind = iota
	// KindDiagram becomes a client-side diagram component placeholder.
	KindDiagram
	// KindWarning becomes a warning callout.
	KindWarning
	// KindNote becomes a tip callout titled NOTE.
	KindNote
	// KindRegexp is highlighted as a regular expression literal.
	KindRegexp
	// KindJison becomes a fixed grammar scaffold.
	KindJison
)

var kindNames = [...]string{
	KindDefault: "default",
	KindDiagram: "diagram",
	KindWarning: "warning",
	KindNote:    "note",
	KindRegexp:  "regexp",
	KindJison:   "jison",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Classify maps a fence info string onto a Kind. Diagram blocks match by
// prefix of diagramTag; the other kinds match the trimmed info exactly.
func Classify(info, diagramTag string) Kind {
	info = strings.TrimSpace(info)
	switch {
	case diagramTag != "" && strings.HasPrefix(info, diagramTag):
		return KindDiagram
	case info == "warning":
		return KindWarning
	case info == "note":
		return KindNote
	case info == "regexp":
		return KindRegexp
	case info == "jison":
		return KindJison
	default:
		return KindDefault
	}
}
