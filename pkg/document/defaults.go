package document

// Defaults returns the starting content and styles for a newly added element
// of type t. Unknown types yield nil content and empty styles.
func Defaults(t Type) (Content, Styles) {
	switch t {
	case TypeHeader:
		return HeaderContent{Text: "New Heading", Level: 2}, StylesOf(
			"color", "#000000",
			"font-family", "Arial, sans-serif",
			"font-size", "24px",
			"text-align", "center",
			"margin-bottom", "20px",
		)
	case TypeText:
		return TextContent{Text: "Add your text here"}, StylesOf(
			"color", "#000000",
			"font-family", "Arial, sans-serif",
			"font-size", "16px",
			"line-height", "1.5",
			"margin-bottom", "20px",
		)
	case TypeImage:
		return ImageContent{
				Src: "https://via.placeholder.com/600x200",
				Alt: "Placeholder image",
			}, StylesOf(
				"width", "100%",
				"height", "auto",
				"margin-bottom", "20px",
			)
	case TypeButton:
		// display/margin/width make the anchor render as a centered inline block.
		return ButtonContent{Text: "Click Me", URL: "#"}, StylesOf(
			"background-color", "#007bff",
			"color", "#ffffff",
			"padding", "10px 20px",
			"border-radius", "4px",
			"text-align", "center",
			"font-family", "Arial, sans-serif",
			"font-size", "16px",
			"text-decoration", "none",
			"margin-bottom", "20px",
			"display", "block",
			"margin-left", "auto",
			"margin-right", "auto",
			"width", "fit-content",
		)
	case TypeDivider:
		return DividerContent{}, StylesOf(
			"border-top", "1px solid #e5e7eb",
			"margin-top", "20px",
			"margin-bottom", "20px",
			"width", "100%",
		)
	case TypeSpacer:
		return SpacerContent{Height: 20}, StylesOf(
			"height", "20px",
			"width", "100%",
		)
	case TypeSocial:
		return SocialContent{Networks: []SocialNetwork{
				{Name: "Facebook", URL: "#", Icon: "facebook"},
				{Name: "Twitter", URL: "#", Icon: "twitter"},
				{Name: "Instagram", URL: "#", Icon: "instagram"},
			}}, StylesOf(
				"text-align", "center",
				"margin-bottom", "20px",
			)
	case TypeColumns:
		return ColumnsContent{Columns: []Column{
				{Elements: []Element{}, Width: "50%"},
				{Elements: []Element{}, Width: "50%"},
			}}, StylesOf(
				"display", "flex",
				"margin-bottom", "20px",
			)
	}
	return nil, Styles{}
}

// NewElement returns an element of type t populated with Defaults.
// The ID is left empty; the editor assigns it on insertion.
func NewElement(t Type) Element {
	c, s := Defaults(t)
	return Element{Type: t, Content: c, Styles: s}
}
