package document

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// CellOptions selects what Lookup returns for a cell.
type CellOptions struct {
	// Attribute names an attribute to read instead of the cell text.
	Attribute string
	// FirstChild returns the cell's first child element.
	FirstChild bool
}

// Cell returns the first descendant of within whose data-stat equals key.
func Cell(key string, within *goquery.Selection) *goquery.Selection {
	if within == nil {
		return nil
	}
	sel := within.Find(fmt.Sprintf(`[data-stat=%q]`, key)).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel
}

// Lookup resolves a cell with the given options. The selection is only set
// when FirstChild is requested.
func Lookup(key string, within *goquery.Selection, opts CellOptions) (Value, *goquery.Selection, error) {
	if opts.Attribute != "" && opts.FirstChild {
		return Value{}, nil, fmt.Errorf("cell %q: %w", key, ErrInvalidArgument)
	}
	cell := Cell(key, within)
	if cell == nil {
		return Value{}, nil, nil
	}
	switch {
	case opts.Attribute != "":
		v, ok := cell.Attr(opts.Attribute)
		if !ok {
			return Value{}, nil, nil
		}
		return Coerce(v), nil, nil
	case opts.FirstChild:
		child := cell.Children().First()
		if child.Length() == 0 {
			return Value{}, nil, nil
		}
		return Value{}, child, nil
	}
	if a := cell.Find("a").First(); a.Length() > 0 {
		return Coerce(a.Text()), nil, nil
	}
	return Coerce(cell.Text()), nil, nil
}

// CellValue returns the coerced link text or text of the key cell.
func CellValue(key string, within *goquery.Selection) Value {
	v, _, _ := Lookup(key, within, CellOptions{})
	return v
}

// CellAttr returns the coerced value of attr on the key cell.
func CellAttr(key string, within *goquery.Selection, attr string) Value {
	v, _, _ := Lookup(key, within, CellOptions{Attribute: attr})
	return v
}

// CellFirstChild returns the key cell's first child element, or nil.
func CellFirstChild(key string, within *goquery.Selection) *goquery.Selection {
	_, child, _ := Lookup(key, within, CellOptions{FirstChild: true})
	return child
}
