package domain

import (
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Coin — строка из списка монет CoinGecko (/coins/list)
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Asset — элемент каталога: отображаемое имя и стабильный идентификатор API
type Asset struct {
	DisplayName string `json:"display_name" msgpack:"display_name"`
	ID          string `json:"id" msgpack:"id"`
}

// DisplayNameOf — формат "{name} ({symbol})", символ как есть, без нормализации регистра.
func DisplayNameOf(name, symbol string) string {
	return name + " (" + symbol + ")"
}

// Catalog — неизменяемое отображение displayName -> id.
type Catalog struct {
	ids   map[string]string
	names []string
}

// NewCatalog строит каталог из списка монет. При совпадении имён побеждает последняя строка.
func NewCatalog(coins []Coin) Catalog {
	ids := make(map[string]string, len(coins))
	for _, c := range coins {
		ids[DisplayNameOf(c.Name, c.Symbol)] = c.ID
	}
	return CatalogFromMap(ids)
}

// CatalogFromMap — восстановление каталога из готового отображения (кэш, снапшот в БД).
func CatalogFromMap(ids map[string]string) Catalog {
	cp := make(map[string]string, len(ids))
	names := make([]string, 0, len(ids))
	for name, id := range ids {
		cp[name] = id
		names = append(names, name)
	}
	sort.Strings(names)
	return Catalog{ids: cp, names: names}
}

// MarshalMsgpack — в Redis хранится только отображение displayName -> id.
func (c Catalog) MarshalMsgpack() ([]byte, error) {
	return msgpack.Marshal(c.ids)
}

// UnmarshalMsgpack восстанавливает каталог вместе с отсортированным списком имён.
func (c *Catalog) UnmarshalMsgpack(b []byte) error {
	var ids map[string]string
	if err := msgpack.Unmarshal(b, &ids); err != nil {
		return err
	}
	*c = CatalogFromMap(ids)
	return nil
}

// Map возвращает копию отображения displayName -> id.
func (c Catalog) Map() map[string]string {
	out := make(map[string]string, len(c.ids))
	for k, v := range c.ids {
		out[k] = v
	}
	return out
}

func (c Catalog) Len() int { return len(c.ids) }

// Names — отображаемые имена по возрастанию.
func (c Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Resolve ищет актив по точному отображаемому имени.
func (c Catalog) Resolve(name string) (Asset, bool) {
	id, ok := c.ids[name]
	if !ok {
		return Asset{}, false
	}
	return Asset{DisplayName: name, ID: id}, true
}

const defaultSuggestLimit = 10

// Suggest — подсказки по вводу пользователя без учёта регистра:
// сначала точное совпадение, затем совпадения по префиксу, затем по подстроке.
func (c Catalog) Suggest(query string, limit int) []Asset {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	var exact, prefix, contains []string
	for _, name := range c.names {
		l := strings.ToLower(name)
		switch {
		case l == q:
			exact = append(exact, name)
		case strings.HasPrefix(l, q):
			prefix = append(prefix, name)
		case strings.Contains(l, q):
			contains = append(contains, name)
		}
	}

	out := make([]Asset, 0, limit)
	for _, group := range [][]string{exact, prefix, contains} {
		for _, name := range group {
			if len(out) == limit {
				return out
			}
			out = append(out, Asset{DisplayName: name, ID: c.ids[name]})
		}
	}
	return out
}
