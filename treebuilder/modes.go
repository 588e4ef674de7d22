package treebuilder

// InsertionMode names one of the tree constructor's "insertion mode" states
// from WHATWG §13.2.4.1, which governs how the next token is handled.
type InsertionMode int

const (
	Initial InsertionMode = iota
	BeforeHTML
	BeforeHead
	InHead
	InHeadNoscript
	AfterHead
	InBody
	Text
	InTable
	InTableText
	InCaption
	InColumnGroup
	InTableBody
	InRow
	InCell
	InSelect
	InSelectInTable
	InTemplate
	AfterBody
	InFrameset
	AfterFrameset
	AfterAfterBody
	AfterAfterFrameset
)

var insertionModeNames = map[InsertionMode]string{
	Initial:             "initial",
	BeforeHTML:          "before html",
	BeforeHead:          "before head",
	InHead:              "in head",
	InHeadNoscript:      "in head noscript",
	AfterHead:           "after head",
	InBody:              "in body",
	Text:                "text",
	InTable:             "in table",
	InTableText:         "in table text",
	InCaption:           "in caption",
	InColumnGroup:       "in column group",
	InTableBody:         "in table body",
	InRow:               "in row",
	InCell:              "in cell",
	InSelect:            "in select",
	InSelectInTable:     "in select in table",
	InTemplate:          "in template",
	AfterBody:           "after body",
	InFrameset:          "in frameset",
	AfterFrameset:       "after frameset",
	AfterAfterBody:      "after after body",
	AfterAfterFrameset:  "after after frameset",
}

func (m InsertionMode) String() string {
	if name, ok := insertionModeNames[m]; ok {
		return name
	}
	return "unknown"
}
