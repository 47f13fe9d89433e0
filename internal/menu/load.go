package menu

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Load parses the embedded catalog. A broken catalog is a build artifact
// problem, so callers treat an error here as fatal.
func Load() (*Catalog, error) {
	return Parse(rawCatalog)
}

// Parse decodes a JSON array of menu items into a Catalog. Items must carry
// a non-empty id and name and a non-negative price; duplicate ids are
// rejected.
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int)}

	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		item, err := decodeItem(d)
		if err != nil {
			return err
		}
		if err := validate(item); err != nil {
			return err
		}
		if _, dup := c.byID[item.ID]; dup {
			return errors.Errorf("duplicate item id %q", item.ID)
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}

	return c, nil
}

// ParseItem decodes and validates a single menu item object, one line of
// a menu export file.
func ParseItem(data []byte) (Item, error) {
	item, err := decodeItem(jx.DecodeBytes(data))
	if err != nil {
		return Item{}, errors.Wrap(err, "decode item")
	}
	if err := validate(item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func decodeItem(d *jx.Decoder) (Item, error) {
	var item Item
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			item.ID, err = d.Str()
		case "name":
			item.Name, err = d.Str()
		case "price":
			var n jx.Num
			if n, err = d.Num(); err == nil {
				item.Price, err = decimal.NewFromString(string(n))
			}
		case "image":
			item.Image, err = d.Str()
		case "category":
			item.Category, err = d.Str()
		case "description":
			item.Description, err = d.Str()
		case "prepTime":
			item.PrepTime, err = d.Str()
		case "veg":
			item.Veg, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	return item, err
}

func validate(item Item) error {
	if item.ID == "" {
		return errors.New("item id is required")
	}
	if item.Name == "" {
		return errors.Errorf("item %q: name is required", item.ID)
	}
	if item.Price.IsNegative() {
		return errors.Errorf("item %q: negative price", item.ID)
	}
	return nil
}
