package document

// Type identifies the kind of an element and the shape of its content.
type Type string

const (
	TypeHeader  Type = "header"
	TypeText    Type = "text"
	TypeImage   Type = "image"
	TypeButton  Type = "button"
	TypeDivider Type = "divider"
	TypeSpacer  Type = "spacer"
	TypeSocial  Type = "social"
	TypeColumns Type = "columns"
)

// Types returns the closed set of element types in canonical order.
func Types() []Type {
	return []Type{
		TypeHeader,
		TypeText,
		TypeImage,
		TypeButton,
		TypeDivider,
		TypeSpacer,
		TypeSocial,
		TypeColumns,
	}
}

// Valid reports whether t belongs to the closed set of element types.
func (t Type) Valid() bool {
	switch t {
	case TypeHeader, TypeText, TypeImage, TypeButton, TypeDivider, TypeSpacer, TypeSocial, TypeColumns:
		return true
	}
	return false
}

func (t Type) String() string { return string(t) }
