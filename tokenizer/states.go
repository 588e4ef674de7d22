package tokenizer

// State identifies one node of the tokenizer's state machine, as laid out
// by the WHATWG tokenization algorithm.
type State int

// InvalidState marks a state name that failed to resolve; it is never
// produced by the tokenizer itself.
const InvalidState State = -1

// PlaintextState and RawtextState are lowercase spellings kept around for
// compatibility with test fixtures that name states the html5lib way.
const (
	PlaintextState = PLAINTEXTState
	RawtextState   = RAWTEXTState
)

const (
	// Text content states: where raw character data is read off the wire.
	DataState State = iota
	RCDATAState
	RAWTEXTState
	ScriptDataState
	PLAINTEXTState

	// Tag and attribute construction.
	TagOpenState
	EndTagOpenState
	TagNameState
	BeforeAttributeNameState
	AttributeNameState
	AfterAttributeNameState
	BeforeAttributeValueState
	AttributeValueDoubleQuotedState
	AttributeValueSingleQuotedState
	AttributeValueUnquotedState
	AfterAttributeValueQuotedState
	SelfClosingStartTagState

	// RCDATA end-tag recognition ("</title" inside <title> text, etc).
	RCDATALessThanSignState
	RCDATAEndTagOpenState
	RCDATAEndTagNameState

	// RAWTEXT end-tag recognition.
	RAWTEXTLessThanSignState
	RAWTEXTEndTagOpenState
	RAWTEXTEndTagNameState

	// <script> content, including the escaped/double-escaped detours used
	// to keep "</script>" out of strings and comments inside inline scripts.
	ScriptDataLessThanSignState
	ScriptDataEndTagOpenState
	ScriptDataEndTagNameState
	ScriptDataEscapeStartState
	ScriptDataEscapeStartDashState
	ScriptDataEscapedState
	ScriptDataEscapedDashState
	ScriptDataEscapedDashDashState
	ScriptDataEscapedLessThanSignState
	ScriptDataEscapedEndTagOpenState
	ScriptDataEscapedEndTagNameState
	ScriptDataDoubleEscapeStartState
	ScriptDataDoubleEscapedState
	ScriptDataDoubleEscapedDashState
	ScriptDataDoubleEscapedDashDashState
	ScriptDataDoubleEscapedLessThanSignState
	ScriptDataDoubleEscapeEndState

	// Comments, including the rarely-hit nested "<!--" bogus-comment paths.
	BogusCommentState
	MarkupDeclarationOpenState
	CommentStartState
	CommentStartDashState
	CommentState
	CommentLessThanSignState
	CommentLessThanSignBangState
	CommentLessThanSignBangDashState
	CommentLessThanSignBangDashDashState
	CommentEndDashState
	CommentEndState
	CommentEndBangState

	// DOCTYPE declarations and their optional PUBLIC/SYSTEM identifiers.
	DOCTYPEState
	BeforeDOCTYPENameState
	DOCTYPENameState
	AfterDOCTYPENameState
	AfterDOCTYPEPublicKeywordState
	BeforeDOCTYPEPublicIdentifierState
	DOCTYPEPublicIdentifierDoubleQuotedState
	DOCTYPEPublicIdentifierSingleQuotedState
	AfterDOCTYPEPublicIdentifierState
	BetweenDOCTYPEPublicAndSystemIdentifiersState
	AfterDOCTYPESystemKeywordState
	BeforeDOCTYPESystemIdentifierState
	DOCTYPESystemIdentifierDoubleQuotedState
	DOCTYPESystemIdentifierSingleQuotedState
	AfterDOCTYPESystemIdentifierState
	BogusDOCTYPEState

	// Foreign-content CDATA sections.
	CDATASectionState
	CDATASectionBracketState
	CDATASectionEndState

	// Character-reference sub-states. The tokenizer folds their behavior
	// into decodeEntitiesInText rather than dispatching through these, but
	// the identifiers stay defined for fixtures that name them explicitly.
	CharacterReferenceState
	NamedCharacterReferenceState
	AmbiguousAmpersandState
	NumericCharacterReferenceState
	HexadecimalCharacterReferenceStartState
	DecimalCharacterReferenceStartState
	HexadecimalCharacterReferenceState
	DecimalCharacterReferenceState
	NumericCharacterReferenceEndState
)

var stateNames = map[State]string{
	DataState:       "Data",
	RCDATAState:     "RCDATA",
	RAWTEXTState:    "RAWTEXT",
	ScriptDataState: "ScriptData",
	PLAINTEXTState:  "PLAINTEXT",

	TagOpenState:                    "TagOpen",
	EndTagOpenState:                 "EndTagOpen",
	TagNameState:                    "TagName",
	BeforeAttributeNameState:        "BeforeAttributeName",
	AttributeNameState:              "AttributeName",
	AfterAttributeNameState:         "AfterAttributeName",
	BeforeAttributeValueState:       "BeforeAttributeValue",
	AttributeValueDoubleQuotedState: "AttributeValueDoubleQuoted",
	AttributeValueSingleQuotedState: "AttributeValueSingleQuoted",
	AttributeValueUnquotedState:     "AttributeValueUnquoted",
	AfterAttributeValueQuotedState:  "AfterAttributeValueQuoted",
	SelfClosingStartTagState:        "SelfClosingStartTag",

	RCDATALessThanSignState: "RCDATALessThanSign",
	RCDATAEndTagOpenState:   "RCDATAEndTagOpen",
	RCDATAEndTagNameState:   "RCDATAEndTagName",

	RAWTEXTLessThanSignState: "RAWTEXTLessThanSign",
	RAWTEXTEndTagOpenState:   "RAWTEXTEndTagOpen",
	RAWTEXTEndTagNameState:   "RAWTEXTEndTagName",

	ScriptDataLessThanSignState:              "ScriptDataLessThanSign",
	ScriptDataEndTagOpenState:                "ScriptDataEndTagOpen",
	ScriptDataEndTagNameState:                "ScriptDataEndTagName",
	ScriptDataEscapeStartState:               "ScriptDataEscapeStart",
	ScriptDataEscapeStartDashState:           "ScriptDataEscapeStartDash",
	ScriptDataEscapedState:                   "ScriptDataEscaped",
	ScriptDataEscapedDashState:               "ScriptDataEscapedDash",
	ScriptDataEscapedDashDashState:           "ScriptDataEscapedDashDash",
	ScriptDataEscapedLessThanSignState:       "ScriptDataEscapedLessThanSign",
	ScriptDataEscapedEndTagOpenState:         "ScriptDataEscapedEndTagOpen",
	ScriptDataEscapedEndTagNameState:         "ScriptDataEscapedEndTagName",
	ScriptDataDoubleEscapeStartState:         "ScriptDataDoubleEscapeStart",
	ScriptDataDoubleEscapedState:             "ScriptDataDoubleEscaped",
	ScriptDataDoubleEscapedDashState:         "ScriptDataDoubleEscapedDash",
	ScriptDataDoubleEscapedDashDashState:     "ScriptDataDoubleEscapedDashDash",
	ScriptDataDoubleEscapedLessThanSignState: "ScriptDataDoubleEscapedLessThanSign",
	ScriptDataDoubleEscapeEndState:           "ScriptDataDoubleEscapeEnd",

	BogusCommentState:                   "BogusComment",
	MarkupDeclarationOpenState:          "MarkupDeclarationOpen",
	CommentStartState:                   "CommentStart",
	CommentStartDashState:               "CommentStartDash",
	CommentState:                        "Comment",
	CommentLessThanSignState:            "CommentLessThanSign",
	CommentLessThanSignBangState:        "CommentLessThanSignBang",
	CommentLessThanSignBangDashState:    "CommentLessThanSignBangDash",
	CommentLessThanSignBangDashDashState: "CommentLessThanSignBangDashDash",
	CommentEndDashState:                 "CommentEndDash",
	CommentEndState:                     "CommentEnd",
	CommentEndBangState:                 "CommentEndBang",

	DOCTYPEState:                                   "DOCTYPE",
	BeforeDOCTYPENameState:                         "BeforeDOCTYPEName",
	DOCTYPENameState:                               "DOCTYPEName",
	AfterDOCTYPENameState:                          "AfterDOCTYPEName",
	AfterDOCTYPEPublicKeywordState:                 "AfterDOCTYPEPublicKeyword",
	BeforeDOCTYPEPublicIdentifierState:             "BeforeDOCTYPEPublicIdentifier",
	DOCTYPEPublicIdentifierDoubleQuotedState:       "DOCTYPEPublicIdentifierDoubleQuoted",
	DOCTYPEPublicIdentifierSingleQuotedState:       "DOCTYPEPublicIdentifierSingleQuoted",
	AfterDOCTYPEPublicIdentifierState:               "AfterDOCTYPEPublicIdentifier",
	BetweenDOCTYPEPublicAndSystemIdentifiersState:   "BetweenDOCTYPEPublicAndSystemIdentifiers",
	AfterDOCTYPESystemKeywordState:                  "AfterDOCTYPESystemKeyword",
	BeforeDOCTYPESystemIdentifierState:              "BeforeDOCTYPESystemIdentifier",
	DOCTYPESystemIdentifierDoubleQuotedState:        "DOCTYPESystemIdentifierDoubleQuoted",
	DOCTYPESystemIdentifierSingleQuotedState:        "DOCTYPESystemIdentifierSingleQuoted",
	AfterDOCTYPESystemIdentifierState:               "AfterDOCTYPESystemIdentifier",
	BogusDOCTYPEState:                               "BogusDOCTYPE",

	CDATASectionState:        "CDATASection",
	CDATASectionBracketState: "CDATASectionBracket",
	CDATASectionEndState:     "CDATASectionEnd",

	CharacterReferenceState:                 "CharacterReference",
	NamedCharacterReferenceState:             "NamedCharacterReference",
	AmbiguousAmpersandState:                  "AmbiguousAmpersand",
	NumericCharacterReferenceState:           "NumericCharacterReference",
	HexadecimalCharacterReferenceStartState:  "HexadecimalCharacterReferenceStart",
	DecimalCharacterReferenceStartState:      "DecimalCharacterReferenceStart",
	HexadecimalCharacterReferenceState:       "HexadecimalCharacterReference",
	DecimalCharacterReferenceState:           "DecimalCharacterReference",
	NumericCharacterReferenceEndState:        "NumericCharacterReferenceEnd",
}

// String renders the state's WHATWG section name, for diagnostics and
// test-failure output; it is never parsed back.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "Unknown"
}
