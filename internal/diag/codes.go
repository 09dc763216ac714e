package diag

import "fmt"

type Code uint16

const (
	// Неизвестная проблема
	UnknownCode Code = 0

	// Структура блоков
	FenceInfo         Code = 1000
	FenceTaggedCloser Code = 1001
	FenceUnclosed     Code = 1002

	// Документ целиком
	DocInfo             Code = 2000
	DocBadFrontMatter   Code = 2001
	DocStructureChanged Code = 2002
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown problem",
	FenceInfo:           "Fence information",
	FenceTaggedCloser:   "Closing fence carries a language tag",
	FenceUnclosed:       "Fence is never closed",
	DocInfo:             "Document information",
	DocBadFrontMatter:   "Front matter could not be parsed",
	DocStructureChanged: "Rewrite changed a code block body",
}

// ID returns the short identifier printed next to the severity, e.g. FEN1001.
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("FEN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DOC%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
