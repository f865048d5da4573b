// package models defines the data model for the focus CLI
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// GistIDKey is the auxiliary catalog key holding the Learning Log gist id.
const GistIDKey = "gist_id"

// DefaultCategories are created when no catalog exists yet.
var DefaultCategories = []string{"coding", "business", "entertainment"}

var (
	channelIDPattern  = regexp.MustCompile(`^UC[0-9A-Za-z_-]{20,}$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	categoryStrip     = regexp.MustCompile(`[^a-z0-9_]`)
)

// Channel is a curated content source.
type Channel struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Category is a named, ordered collection of channels.
type Category struct {
	Name     string
	Channels []Channel
}

// HasChannel reports whether a channel with the given id is in the category.
func (c *Category) HasChannel(id string) bool {
	for _, ch := range c.Channels {
		if ch.ID == id {
			return true
		}
	}
	return false
}

// Catalog is the persisted category to channel-list mapping.
//
// Key order of the JSON document is preserved: categories keep their position and
// non-list values are kept in Aux.
type Catalog struct {
	Categories []Category
	Aux        map[string]json.RawMessage
}

// NewDefaultCatalog returns a catalog holding the empty [DefaultCategories].
func NewDefaultCatalog() *Catalog {
	c := &Catalog{Aux: map[string]json.RawMessage{}}
	for _, name := range DefaultCategories {
		c.Categories = append(c.Categories, Category{Name: name, Channels: []Channel{}})
	}
	return c
}

// CategoryNames lists category names in document order. Auxiliary keys are excluded.
func (c *Catalog) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// Category returns the category with the given name.
func (c *Catalog) Category(name string) (*Category, bool) {
	for i := range c.Categories {
		if c.Categories[i].Name == name {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

// Channels returns the channels of a category, or nil when it does not exist.
func (c *Catalog) Channels(name string) []Channel {
	if cat, ok := c.Category(name); ok {
		return cat.Channels
	}
	return nil
}

// AddChannel appends a channel to a category, creating the category when missing.
// It returns false when the id is already present in that category.
func (c *Catalog) AddChannel(category string, ch Channel) bool {
	cat, ok := c.Category(category)
	if !ok {
		c.Categories = append(c.Categories, Category{Name: category})
		cat = &c.Categories[len(c.Categories)-1]
	}
	if cat.HasChannel(ch.ID) {
		return false
	}
	cat.Channels = append(cat.Channels, ch)
	return true
}

// RemoveChannel deletes the channel with the given id from a category.
func (c *Catalog) RemoveChannel(category, id string) bool {
	cat, ok := c.Category(category)
	if !ok {
		return false
	}
	for i, ch := range cat.Channels {
		if ch.ID == id {
			cat.Channels = append(cat.Channels[:i], cat.Channels[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveCategory deletes a category and its channels.
func (c *Catalog) RemoveCategory(name string) bool {
	for i, cat := range c.Categories {
		if cat.Name == name {
			c.Categories = append(c.Categories[:i], c.Categories[i+1:]...)
			return true
		}
	}
	return false
}

// AuxString returns an auxiliary string value, or "" when absent or not a string.
func (c *Catalog) AuxString(key string) string {
	raw, ok := c.Aux[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// SetAuxString stores an auxiliary string value.
func (c *Catalog) SetAuxString(key, value string) {
	if c.Aux == nil {
		c.Aux = map[string]json.RawMessage{}
	}
	raw, _ := json.Marshal(value)
	c.Aux[key] = raw
}

// UnmarshalJSON decodes the catalog object while keeping key order.
// Array values become categories, anything else is auxiliary state.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}

	c.Categories = nil
	c.Aux = map[string]json.RawMessage{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("catalog: key %q: %w", key, err)
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var channels []Channel
			if err := json.Unmarshal(trimmed, &channels); err != nil {
				return fmt.Errorf("catalog: category %q: %w", key, err)
			}
			if channels == nil {
				channels = []Channel{}
			}
			c.Categories = append(c.Categories, Category{Name: key, Channels: channels})
			continue
		}
		c.Aux[key] = raw
	}

	_, err = dec.Token()
	return err
}

// MarshalJSON encodes categories in order followed by auxiliary keys sorted by name.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeKey := func(key string) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		return nil
	}

	for _, cat := range c.Categories {
		if err := writeKey(cat.Name); err != nil {
			return nil, err
		}
		channels := cat.Channels
		if channels == nil {
			channels = []Channel{}
		}
		v, err := json.Marshal(channels)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}

	keys := make([]string, 0, len(c.Aux))
	for k := range c.Aux {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeKey(k); err != nil {
			return nil, err
		}
		buf.Write(c.Aux[k])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NormalizeCategoryName turns user input into a safe category key.
//
// Returns "" when nothing usable remains.
func NormalizeCategoryName(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = whitespacePattern.ReplaceAllString(cleaned, "_")
	cleaned = categoryStrip.ReplaceAllString(cleaned, "")
	return strings.Trim(cleaned, "_")
}

// IsValidChannelID performs basic validation of a UC... channel id.
func IsValidChannelID(raw string) bool {
	return channelIDPattern.MatchString(strings.TrimSpace(raw))
}

// IsHandleOrURL accepts a handle (@...), a URL, or a UC... id.
func IsHandleOrURL(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	return strings.HasPrefix(trimmed, "@") || strings.HasPrefix(trimmed, "http") || strings.HasPrefix(trimmed, "UC")
}

// ChannelURL returns the public page of a channel.
func ChannelURL(id string) string {
	return "https://www.youtube.com/channel/" + id
}
