// Package seed carries the fixed dataset pushed into empty collections on
// first start.
package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"storefront_service/internal/domain"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Dataset struct {
	Products []domain.Product `yaml:"products"`
	Coupons  []domain.Coupon  `yaml:"coupons"`
}

// Load parses the embedded dataset.
func Load() (*Dataset, error) {
	return Parse(catalogYAML)
}

func Parse(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("could not parse seed dataset: %w", err)
	}
	for i := range ds.Products {
		p := &ds.Products[i]
		if p.ID == "" {
			return nil, fmt.Errorf("seed product %d has no id", i)
		}
		if !domain.IsValidSection(p.Section) {
			return nil, fmt.Errorf("seed product %s has unknown section %q", p.ID, p.Section)
		}
		p.NormalizeMRP()
	}
	for i := range ds.Coupons {
		ds.Coupons[i].Code = domain.NormalizeCouponCode(ds.Coupons[i].Code)
	}
	return &ds, nil
}
