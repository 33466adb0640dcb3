package catalog

import (
	"testing"
)

const variantsBody = `[
  {"node": {"title": "Rolo Blackout", "variants": {"edges": [
    {"node": {"id": "gid://shopify/ProductVariant/1", "sku": "RB-1015", "price": "249.90",
      "length": "1000", "height": "1500", "timeToShip": {"value": "7"},
      "totalPackageLenght": {"value": "1050"}, "packageWidth": {"value": "80"},
      "packageHeight": null, "sku-base": "RB"}},
    {"node": {"id": "gid://shopify/ProductVariant/2", "sku": "RB-1215", "price": 289.9,
      "length": 1200, "height": 1500, "timeToShip": null, "sku-base": "RB"}}
  ]}}},
  {"node": {"title": "Romana", "variants": {"edges": []}}}
]`

func TestParseVariantsResponse(t *testing.T) {
	families, err := ParseVariantsResponse([]byte(variantsBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("families = %d, want 2", len(families))
	}
	roller := families[0]
	if roller.Title != "Rolo Blackout" || len(roller.Variants) != 2 {
		t.Fatalf("unexpected family: %+v", roller)
	}
	v := roller.Variants[0]
	if v.Price.Value != "249.90" || v.TimeToShip.Value != "7" || v.TotalPackageLength.Value != "1050" || v.PackageHeight.Set {
		t.Errorf("variant fields not decoded: %+v", v)
	}
	if got := roller.Variants[1]; got.Price.Value != "289.9" || got.Length.Value != "1200" || got.TimeToShip.Set {
		t.Errorf("numeric fields not decoded: %+v", got)
	}
	if len(families[1].Variants) != 0 {
		t.Errorf("empty family has %d variants", len(families[1].Variants))
	}
}

func TestParseVariantsResponseRejectsNonArray(t *testing.T) {
	for _, body := range []string{`{"node": {}}`, ``, `null`, `"ok"`} {
		if _, err := ParseVariantsResponse([]byte(body)); err == nil {
			t.Errorf("ParseVariantsResponse(%q) succeeded, want error", body)
		}
	}
}

const productsBody = `[
  {"title": "Rolo Blackout",
   "id_products_all": ["gid://shopify/Product/111", "gid://shopify/Product/222"],
   "id_persiana_principal": ["gid://shopify/Product/111"],
   "id_persiana_secundaria": null,
   "larguraMinima": {"value": "400"}, "larguraMaxima": {"value": "2000"},
   "alturaMinima": {"value": "500"}, "alturaMaxima": {"value": "2505"},
   "movementControl": null, "product_type": "Persiana"},
  {"node": {"title": "Romana",
   "id_products_all": [],
   "id_persiana_principal": ["gid://shopify/Product/333"],
   "id_persiana_secundaria": ["gid://shopify/Product/444", ""],
   "larguraMinima": {"value": "500"}, "larguraMaxima": {"value": "1800"},
   "alturaMinima": {"value": "600"}, "alturaMaxima": {"value": "2000"},
   "movementControl": "Motorizado, Manual"}},
  {"title": "Sem limites", "larguraMinima": {"value": "500"}},
  {"title": "Limite invalido",
   "larguraMinima": {"value": "abc"}, "larguraMaxima": {"value": "1800"},
   "alturaMinima": {"value": "600"}, "alturaMaxima": {"value": "2000"}},
  42
]`

func TestParseFamilies(t *testing.T) {
	families, skipped, err := ParseFamilies([]byte(productsBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("families = %d, want 2", len(families))
	}
	if len(skipped) != 3 {
		t.Errorf("skipped = %d, want 3: %v", len(skipped), skipped)
	}

	roller := families[0]
	if roller.MinWidth != 40 || roller.MaxWidth != 200 || roller.MinHeight != 50 || roller.MaxHeight != 250.5 {
		t.Errorf("roller bounds = %+v", roller)
	}
	if len(roller.ProductIDs) != 2 || roller.ProductIDs[0] != "111" || roller.ProductIDs[1] != "222" {
		t.Errorf("roller ids = %v", roller.ProductIDs)
	}
	if roller.MovementControl != nil || roller.ProductType != "Persiana" {
		t.Errorf("roller extras = %+v", roller)
	}

	roman := families[1]
	if len(roman.ProductIDs) != 2 || roman.ProductIDs[0] != "333" || roman.ProductIDs[1] != "444" {
		t.Errorf("roman ids = %v, want principal then secundaria", roman.ProductIDs)
	}
	if roman.PrimaryProductID() != "333" {
		t.Errorf("primary = %q", roman.PrimaryProductID())
	}
	if roman.MovementControl == nil || *roman.MovementControl != "Motorizado, Manual" {
		t.Errorf("movementControl = %v", roman.MovementControl)
	}
}

func TestStripProductGID(t *testing.T) {
	tests := map[string]string{
		"gid://shopify/Product/123":      "123",
		"123":                            "123",
		"gid://shopify/ProductVariant/9": "gid://shopify/ProductVariant/9",
	}
	for in, want := range tests {
		if got := StripProductGID(in); got != want {
			t.Errorf("StripProductGID(%q) = %q, want %q", in, got, want)
		}
	}
}
