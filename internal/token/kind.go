package token

// Kind represents the category of a source token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident     // module, int, dialect names
	ValueRef  // %name
	BlockRef  // ^name
	SymbolRef // @name
	RegRef    // $name
	IntLit    // 42, -7, 0x2a
	StringLit // "text"

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	Lt       // <
	Gt       // >
	Comma    // ,
	Colon    // :
	Assign   // =
	Arrow    // ->
	Dot      // .
	Bang     // !
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "end of input",
	Ident:     "identifier",
	ValueRef:  "value reference",
	BlockRef:  "block label",
	SymbolRef: "symbol reference",
	RegRef:    "register reference",
	IntLit:    "integer literal",
	StringLit: "string literal",
	LParen:    "'('",
	RParen:    "')'",
	LBrace:    "'{'",
	RBrace:    "'}'",
	LBracket:  "'['",
	RBracket:  "']'",
	Lt:        "'<'",
	Gt:        "'>'",
	Comma:     "','",
	Colon:     "':'",
	Assign:    "'='",
	Arrow:     "'->'",
	Dot:       "'.'",
	Bang:      "'!'",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
