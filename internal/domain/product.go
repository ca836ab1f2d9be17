package domain

import "time"

type Section string

const (
	SectionSaree Section = "Saree"
	SectionKids  Section = "Kids"
)

func IsValidSection(s Section) bool {
	switch s {
	case SectionSaree, SectionKids:
		return true
	default:
		return false
	}
}

type Product struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Price       int64     `json:"price" yaml:"price"`
	MRP         int64     `json:"mrp,omitempty" yaml:"mrp"`
	Stock       int       `json:"stock" yaml:"stock"`
	Section     Section   `json:"section" yaml:"section"`
	Category    string    `json:"category" yaml:"category"`
	Images      []string  `json:"images,omitempty" yaml:"images"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Colors      []string  `json:"colors,omitempty" yaml:"colors"`
	Fabric      string    `json:"fabric,omitempty" yaml:"fabric"`
	Occasion    string    `json:"occasion,omitempty" yaml:"occasion"`
	Care        string    `json:"care,omitempty" yaml:"care"`
	Tags        []string  `json:"tags,omitempty" yaml:"tags"`
	CreatedAt   time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"-"`
}

// NormalizeMRP coerces a set MRP below the selling price up to the price.
func (p *Product) NormalizeMRP() {
	if p.MRP != 0 && p.MRP < p.Price {
		p.MRP = p.Price
	}
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// CartItem is a product line in a session cart.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
