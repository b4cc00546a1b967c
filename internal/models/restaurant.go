package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Catalog documents and API responses carry prices as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Restaurant describes one loaded catalog document. Instances are built once by
// the catalog loader and are read-only afterwards.
type Restaurant struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	MinOrder    decimal.Decimal `json:"min_order"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Menu        Menu            `json:"menu"`
}

// MenuItem is one orderable dish. The ID is unique within its category only,
// not across the whole menu.
type MenuItem struct {
	ID          string          `json:"-"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// MenuCategory is a named, ordered group of menu items.
type MenuCategory struct {
	Name  string
	Items []MenuItem
}

// Menu keeps categories and items in catalog-document order. A plain
// map[string]... would lose that order, so (un)marshalling walks the JSON
// object token by token.
type Menu []MenuCategory

// FindItem resolves an item reference. With a category name it looks only
// there; without one it scans categories in menu order and the first matching
// id wins.
func (m Menu) FindItem(category, id string) (MenuItem, bool) {
	for _, cat := range m {
		if category != "" && cat.Name != category {
			continue
		}
		for _, item := range cat.Items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return MenuItem{}, false
}

func (m *Menu) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("menu must be a JSON object")
	}

	var menu Menu
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		category := tok.(string)

		items, err := decodeCategoryItems(dec)
		if err != nil {
			return fmt.Errorf("category %q: %w", category, err)
		}
		menu = append(menu, MenuCategory{Name: category, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = menu
	return nil
}

func decodeCategoryItems(dec *json.Decoder) ([]MenuItem, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("category must be a JSON object of items")
	}

	var items []MenuItem
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id := tok.(string)

		var item MenuItem
		if err := dec.Decode(&item); err != nil {
			return nil, fmt.Errorf("item %q: %w", id, err)
		}
		item.ID = id
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

func (m Menu) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteByte('{')
		for j, item := range cat.Items {
			if j > 0 {
				buf.WriteByte(',')
			}
			id, err := json.Marshal(item.ID)
			if err != nil {
				return nil, err
			}
			body, err := json.Marshal(item)
			if err != nil {
				return nil, err
			}
			buf.Write(id)
			buf.WriteByte(':')
			buf.Write(body)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
