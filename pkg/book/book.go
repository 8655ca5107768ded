package book

import (
	"encoding/json"
	"fmt"
)

// Book is the mdBook book tree as carried by the preprocessor protocol.
// Only the section list is interpreted; every other field is preserved as
// raw JSON so the book round-trips byte-compatibly through tessera.
type Book struct {
	Sections []Item

	extra map[string]json.RawMessage
}

func (b *Book) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid book: %w", err)
	}
	if sections, ok := raw["sections"]; ok {
		if err := json.Unmarshal(sections, &b.Sections); err != nil {
			return fmt.Errorf("invalid book sections: %w", err)
		}
		delete(raw, "sections")
	}
	b.extra = raw
	return nil
}

func (b Book) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(b.extra)+1)
	for key, value := range b.extra {
		out[key] = value
	}
	sections, err := json.Marshal(b.Sections)
	if err != nil {
		return nil, err
	}
	out["sections"] = sections
	return json.Marshal(out)
}

// Item is one entry in a book's section list. Exactly one variant is set,
// mirroring mdBook's externally tagged BookItem enum: a chapter object, a
// part title, or the literal string "Separator".
type Item struct {
	Chapter   *Chapter
	PartTitle string
	Separator bool
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "Separator" {
			i.Separator = true
			return nil
		}
		return fmt.Errorf("unknown book item %q", s)
	}

	var tagged struct {
		Chapter   *Chapter `json:"Chapter"`
		PartTitle *string  `json:"PartTitle"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("invalid book item: %w", err)
	}
	switch {
	case tagged.Chapter != nil:
		i.Chapter = tagged.Chapter
	case tagged.PartTitle != nil:
		i.PartTitle = *tagged.PartTitle
	default:
		return fmt.Errorf("book item has no recognized variant")
	}
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	switch {
	case i.Separator:
		return json.Marshal("Separator")
	case i.Chapter != nil:
		return json.Marshal(map[string]*Chapter{"Chapter": i.Chapter})
	default:
		return json.Marshal(map[string]string{"PartTitle": i.PartTitle})
	}
}

// Chapter is one document in the book. Content is the only field tessera
// rewrites; Path locates the chapter within the book's source directory
// and is nil for draft chapters. Unknown fields (numbering, parent names,
// source paths) are preserved raw.
type Chapter struct {
	Name     string
	Content  string
	Path     *string
	SubItems []Item

	extra map[string]json.RawMessage
}

func (c *Chapter) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid chapter: %w", err)
	}

	fields := map[string]any{
		"name":      &c.Name,
		"content":   &c.Content,
		"path":      &c.Path,
		"sub_items": &c.SubItems,
	}
	for key, dst := range fields {
		if value, ok := raw[key]; ok {
			if err := json.Unmarshal(value, dst); err != nil {
				return fmt.Errorf("invalid chapter field %q: %w", key, err)
			}
			delete(raw, key)
		}
	}
	c.extra = raw
	return nil
}

func (c Chapter) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(c.extra)+4)
	for key, value := range c.extra {
		out[key] = value
	}

	subItems := c.SubItems
	if subItems == nil {
		subItems = []Item{}
	}
	fields := map[string]any{
		"name":      c.Name,
		"content":   c.Content,
		"path":      c.Path,
		"sub_items": subItems,
	}
	for key, src := range fields {
		encoded, err := json.Marshal(src)
		if err != nil {
			return nil, err
		}
		out[key] = encoded
	}
	return json.Marshal(out)
}
