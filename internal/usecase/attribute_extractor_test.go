package usecase

import (
	"reflect"
	"testing"
)

func TestAttributeExtractor_Extract(t *testing.T) {
	e := NewAttributeExtractor(false)

	testCases := []struct {
		name       string
		query      string
		wantBrands []string
		wantModels []string
		wantSpecs  []string
	}{
		{
			name:       "phone with storage and variant",
			query:      "iPhone 16 Pro 128GB",
			wantBrands: []string{"iphone"},
			wantModels: []string{"16 pro", "128gb", "iphone 16 pro"},
			wantSpecs:  []string{"128gb", "pro"},
		},
		{
			name:       "earbuds product line",
			query:      "boAt Airdopes 141 Pro",
			wantBrands: []string{"boat"},
			wantModels: []string{"airdopes 141 pro", "141 pro"},
			wantSpecs:  []string{"pro"},
		},
		{
			name:       "screen size and color",
			query:      "Samsung 55 inch TV black",
			wantBrands: []string{"samsung"},
			wantModels: nil,
			wantSpecs:  []string{"55 inch", "black"},
		},
		{
			name:       "brand must be a whole word",
			query:      "appleseed lamp",
			wantBrands: nil,
			wantModels: nil,
			wantSpecs:  nil,
		},
		{
			name:       "power and battery without a model number",
			query:      "Anker power bank 20000mAh 65W",
			wantBrands: nil,
			wantModels: nil,
			wantSpecs:  []string{"20000mah", "65w"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := e.Extract(tc.query)
			if !reflect.DeepEqual(got.Brands, tc.wantBrands) {
				t.Errorf("Brands = %v, want %v", got.Brands, tc.wantBrands)
			}
			if !reflect.DeepEqual(got.Specs, tc.wantSpecs) {
				t.Errorf("Specs = %v, want %v", got.Specs, tc.wantSpecs)
			}
			for _, want := range tc.wantModels {
				if !contains(got.Models, want) {
					t.Errorf("Models = %v, missing %q", got.Models, want)
				}
			}
			if tc.wantModels == nil && len(got.Models) != 0 {
				t.Errorf("Models = %v, want none", got.Models)
			}
		})
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
