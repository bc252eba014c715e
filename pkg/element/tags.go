package element

// Tag helpers for the common HTML elements.

func Div(props PropFunc, children ...any) *Element { return H("div", props, children...) }
func P(props PropFunc, children ...any) *Element { return H("p", props, children...) }
func Span(props PropFunc, children ...any) *Element { return H("span", props, children...) }
func Em(props PropFunc, children ...any) *Element { return H("em", props, children...) }
func Strong(props PropFunc, children ...any) *Element { return H("strong", props, children...) }
func Button(props PropFunc, children ...any) *Element { return H("button", props, children...) }
func Input(props PropFunc) *Element { return H("input", props) }
func Label(props PropFunc, children ...any) *Element { return H("label", props, children...) }
func A(props PropFunc, children ...any) *Element { return H("a", props, children...) }
func H1(props PropFunc, children ...any) *Element { return H("h1", props, children...) }
func H2(props PropFunc, children ...any) *Element { return H("h2", props, children...) }
func H3(props PropFunc, children ...any) *Element { return H("h3", props, children...) }
func H4(props PropFunc, children ...any) *Element { return H("h4", props, children...) }
func H5(props PropFunc, children ...any) *Element { return H("h5", props, children...) }
func H6(props PropFunc, children ...any) *Element { return H("h6", props, children...) }
func Header(props PropFunc, children ...any) *Element { return H("header", props, children...) }
func Section(props PropFunc, children ...any) *Element { return H("section", props, children...) }
func Table(props PropFunc, children ...any) *Element { return H("table", props, children...) }
func Tr(props PropFunc, children ...any) *Element { return H("tr", props, children...) }
func Td(props PropFunc, children ...any) *Element { return H("td", props, children...) }
func Th(props PropFunc, children ...any) *Element { return H("th", props, children...) }
func Ul(props PropFunc, children ...any) *Element { return H("ul", props, children...) }
func Li(props PropFunc, children ...any) *Element { return H("li", props, children...) }
