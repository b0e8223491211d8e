package formdef_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-controlbox/pkg/control"
	"github.com/goliatone/go-controlbox/pkg/formdef"
)

func loadCatalog(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "catalog.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestFromOpenAPI_MapsProperties(t *testing.T) {
	def, err := formdef.FromOpenAPI(context.Background(), loadCatalog(t), "Product")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}

	if def.FormID != "Product" {
		t.Fatalf("form id = %q", def.FormID)
	}

	byName := make(map[string]control.Spec, len(def.Controls))
	var names []string
	for _, spec := range def.Controls {
		byName[spec.Name] = spec
		names = append(names, spec.Name)
	}
	wantNames := []string{"active", "description", "price", "size", "sku", "stock", "tags"}
	if diff := cmp.Diff(wantNames, names); diff != "" {
		t.Fatalf("control order mismatch (-want +got):\n%s", diff)
	}

	sku := byName["sku"]
	if sku.Kind != control.KindString || !sku.Required || sku.Label != "SKU" || sku.Pattern != `^[A-Z]{3}-\d+$` {
		t.Fatalf("unexpected sku spec %+v", sku)
	}
	price := byName["price"]
	if price.Kind != control.KindNumber || price.Integer || !price.Required || price.Min == nil || *price.Min != 0 {
		t.Fatalf("unexpected price spec %+v", price)
	}
	stock := byName["stock"]
	if !stock.Integer || stock.Max == nil || *stock.Max != 1000 || stock.Required {
		t.Fatalf("unexpected stock spec %+v", stock)
	}
	if byName["active"].Kind != control.KindBoolean || byName["active"].Default != true {
		t.Fatalf("unexpected active spec %+v", byName["active"])
	}
	if byName["size"].Pattern != "^(S|M|L)$" {
		t.Fatalf("unexpected size pattern %q", byName["size"].Pattern)
	}
	if byName["tags"].Kind != control.KindArray || byName["tags"].MaxItems != 5 {
		t.Fatalf("unexpected tags spec %+v", byName["tags"])
	}
	if byName["description"].Help != "Shown on the product page" || byName["description"].MaxLength != 200 {
		t.Fatalf("unexpected description spec %+v", byName["description"])
	}

	if len(def.Sections) != 1 {
		t.Fatalf("expected one nested section, got %d", len(def.Sections))
	}
	var nested []string
	for _, spec := range def.Sections[0].Controls {
		nested = append(nested, spec.Name)
	}
	if diff := cmp.Diff([]string{"dimensions.height", "dimensions.width"}, nested); diff != "" {
		t.Fatalf("nested controls mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPI_BuildsBox(t *testing.T) {
	def, err := formdef.FromOpenAPI(context.Background(), loadCatalog(t), "Product")
	if err != nil {
		t.Fatalf("from openapi: %v", err)
	}
	box, err := formdef.Build(def, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := len(box.Controls()); got != 9 {
		t.Fatalf("expected 9 controls, got %d", got)
	}
}

func TestFromOpenAPI_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := formdef.FromOpenAPI(ctx, nil, "Product"); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := formdef.FromOpenAPI(ctx, loadCatalog(t), "Missing"); err == nil {
		t.Fatalf("expected error for missing schema")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := formdef.FromOpenAPI(cancelled, loadCatalog(t), "Product"); err == nil {
		t.Fatalf("expected context error")
	}
}
