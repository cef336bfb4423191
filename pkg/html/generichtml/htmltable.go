package generichtml

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

type HTMLItem interface {
	ToHTML() string
}

// HTMLText is literal markup. Callers escape it first when it comes from message data.
type HTMLText string

func (t HTMLText) ToHTML() string {
	return string(t)
}

// HTMLItems renders a sequence of items back to back.
type HTMLItems []HTMLItem

func (items HTMLItems) ToHTML() string {
	sb := &strings.Builder{}
	for _, item := range items {
		sb.WriteString(item.ToHTML())
	}
	return sb.String()
}

type HTMLElement struct {
	Params    map[string]string
	Text      string
	HTMLItems []HTMLItem
	Element   string
	// Void elements such as img are written self-closed and take no content.
	Void bool
}

func (t HTMLElement) ToHTML() string {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "<%s", t.Element)

	// Order param keys
	for _, paramKey := range sets.StringKeySet(t.Params).List() {
		fmt.Fprintf(sb, ` %s="%s"`, paramKey, t.Params[paramKey])
	}

	if t.Void {
		sb.WriteString(" />")
		return sb.String()
	}
	sb.WriteString(">")

	if len(t.HTMLItems) != 0 {
		for _, item := range t.HTMLItems {
			sb.WriteString(item.ToHTML())
		}
	} else {
		sb.WriteString(t.Text)
	}

	fmt.Fprintf(sb, "</%s>", t.Element)

	return sb.String()
}

// NewHTMLLinkWithParams builds an anchor. An href in params wins over href.
func NewHTMLLinkWithParams(text string, href string, params map[string]string) HTMLElement {
	t := HTMLElement{
		Element: "a",
		Text:    text,
		Params:  map[string]string{},
	}

	for k, v := range params {
		t.Params[k] = v
	}

	if _, ok := t.Params["href"]; ok {
		return t
	}

	t.Params["href"] = href
	return t
}

// NewHTMLAnchor builds an empty named jump target.
func NewHTMLAnchor(id string) HTMLElement {
	return HTMLElement{
		Element: "a",
		Params:  map[string]string{"id": id},
	}
}

type HTMLTableHeaderRowItem struct {
	Text      string
	HTMLItems []HTMLItem
	Params    map[string]string
}

func (r HTMLTableHeaderRowItem) ToHTML() string {
	t := HTMLElement{
		Element:   "th",
		Params:    r.Params,
		Text:      r.Text,
		HTMLItems: r.HTMLItems,
	}

	return t.ToHTML()
}

type HTMLTableRowItem struct {
	Text      string
	HTMLItems []HTMLItem
	Params    map[string]string
}

func (r HTMLTableRowItem) ToHTML() string {
	t := HTMLElement{
		Element:   "td",
		Params:    r.Params,
		HTMLItems: r.HTMLItems,
		Text:      r.Text,
	}

	return t.ToHTML()
}

type HTMLTableRow struct {
	items  []HTMLItem
	params map[string]string
}

func NewHTMLTableRowWithItems(p map[string]string, items []HTMLItem) HTMLTableRow {
	return HTMLTableRow{
		items:  items,
		params: p,
	}
}

func NewHTMLTableRow(p map[string]string) HTMLTableRow {
	return HTMLTableRow{
		params: p,
	}
}

func (r *HTMLTableRow) AddItems(items []HTMLItem) {
	r.items = append(r.items, items...)
}

func (r HTMLTableRow) ToHTML() string {
	t := HTMLElement{
		Element:   "tr",
		Params:    r.params,
		HTMLItems: r.items,
	}

	return t.ToHTML()
}

// HTMLTable renders without whitespace between elements.
type HTMLTable struct {
	headerRows []HTMLTableRow
	rows       []HTMLTableRow
	params     map[string]string
}

func NewHTMLTable(p map[string]string) HTMLTable {
	return HTMLTable{
		params: p,
	}
}

func (h *HTMLTable) AddHeaderRow(headerRow HTMLTableRow) {
	h.headerRows = append(h.headerRows, headerRow)
}

func (h *HTMLTable) AddRow(row HTMLTableRow) {
	h.rows = append(h.rows, row)
}

func (h HTMLTable) ToHTML() string {
	sb := &strings.Builder{}

	for _, row := range h.headerRows {
		sb.WriteString(row.ToHTML())
	}

	for _, row := range h.rows {
		sb.WriteString(row.ToHTML())
	}

	t := HTMLElement{
		Element: "table",
		Params:  h.params,
		Text:    sb.String(),
	}

	return t.ToHTML()
}
