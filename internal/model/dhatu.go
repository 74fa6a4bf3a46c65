package model

// DerivedForm is one attested form produced from a root.
type DerivedForm struct {
	Form  string `json:"form"`
	Gloss string `json:"gloss,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Dhatu is a Sanskrit verbal root and its derived forms, loaded from
// configs/dhatus.json.
type Dhatu struct {
	ID           string        `json:"id"`
	IAST         string        `json:"iast"`
	Devanagari   string        `json:"devanagari,omitempty"`
	Meaning      string        `json:"meaning,omitempty"`
	DerivedForms []DerivedForm `json:"derivedForms,omitempty"`
	DerivesTo    []string      `json:"derivesTo,omitempty"`
}
