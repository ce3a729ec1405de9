package status

import (
	"fmt"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	entryIndent = 2  // spaces to indent entry lines
	tagWidth    = 9  // width of the kind tag column, fits "skip(bin)"
	pathWidth   = 45 // base width for the path column
)

// EntryFormatter defines how processed entries are formatted for the console
type EntryFormatter interface {
	// FormatEntry formats one processed-entry line
	FormatEntry(kind Kind, path, detail string) string
}

// DefaultEntryFormatter provides the default aligned, colored format
type DefaultEntryFormatter struct{}

// NewDefaultEntryFormatter creates a new DefaultEntryFormatter
func NewDefaultEntryFormatter() *DefaultEntryFormatter {
	return &DefaultEntryFormatter{}
}

// FormatEntry formats a line as: indent, colored kind tag, path, detail
func (f *DefaultEntryFormatter) FormatEntry(kind Kind, path, detail string) string {
	tag := color.New(kindColor(kind)).Sprint(fmt.Sprintf("%-*s", tagWidth, kind.String()))
	line := fmt.Sprintf("%*s%s %-*s", entryIndent, "", tag, pathWidth, path)
	if detail != "" {
		line += " " + color.New(color.Faint).Sprint(detail)
	}
	return line
}

func kindColor(kind Kind) color.Attribute {
	switch kind {
	case KindSkip:
		return color.FgYellow
	case KindPlan:
		return color.FgCyan
	case KindRename:
		return color.FgGreen
	case KindRewrite:
		return color.FgBlue
	case KindSkipBinary:
		return color.FgMagenta
	default:
		return color.FgWhite
	}
}
