package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStockString(t *testing.T) {
	testCases := []struct {
		name     string
		stock    Stock
		expected string
	}{
		{"Count", StockCount(25), "25"},
		{"Out Of Stock", OutOfStock("Agotado"), "0 (Agotado)"},
		{"Note", StockNote("Disponible en tienda"), "Disponible en tienda"},
		{"Sentinel", StockNote(NotFound), "not found"},
		{"Empty", Stock{}, ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.stock.String(); got != tc.expected {
				t.Errorf("String() = %q; want %q", got, tc.expected)
			}
			// Rendering and parsing back must agree.
			if back := ParseStock(tc.expected).String(); back != tc.expected {
				t.Errorf("ParseStock(%q).String() = %q", tc.expected, back)
			}
		})
	}
}

func TestStockJSON(t *testing.T) {
	testCases := []struct {
		name     string
		stock    Stock
		expected string
	}{
		{"Bare Count Is A Number", StockCount(3), `3`},
		{"Annotated Count Is Text", OutOfStock("Agotado"), `"0 (Agotado)"`},
		{"Note Is Text", StockNote(NotFound), `"not found"`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.stock)
			if err != nil {
				t.Fatal(err)
			}
			if string(raw) != tc.expected {
				t.Errorf("Marshal = %s; want %s", raw, tc.expected)
			}
			var back Stock
			if err := json.Unmarshal(raw, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if back.String() != tc.stock.String() || back.Known() != tc.stock.Known() {
				t.Errorf("Unmarshal gave %q (known %v)", back.String(), back.Known())
			}
		})
	}

	var s Stock
	if err := json.Unmarshal([]byte(`{"count":1}`), &s); err == nil {
		t.Error("expected an error for an object")
	}
}

func TestNotFoundRecord(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := NotFoundRecord("777", "https://www.homedepot.com.mx/s/777", now)

	expected := []string{"777", NotFound, "", "", "", "https://www.homedepot.com.mx/s/777", "2024-01-02 03:04:05", ""}
	row := rec.Row()
	if len(row) != len(CSVHeader) {
		t.Fatalf("row has %d columns; want %d", len(row), len(CSVHeader))
	}
	for i := range expected {
		if row[i] != expected[i] {
			t.Errorf("column %s = %q; want %q", CSVHeader[i], row[i], expected[i])
		}
	}
}

func TestRecordFromRow(t *testing.T) {
	row := []string{"1", "Martillo", "Acero", "$10", "0 (Agotado)", "https://x/p/1", "2024-01-02 03:04:05", "MLM5"}
	rec, err := RecordFromRow(row)
	if err != nil {
		t.Fatalf("RecordFromRow: %v", err)
	}
	if rec.ItemID == nil || *rec.ItemID != "MLM5" {
		t.Errorf("ItemID = %v", rec.ItemID)
	}
	if !rec.StockAvailable.Known() || *rec.StockAvailable.Count != 0 || rec.StockAvailable.Note != "Agotado" {
		t.Errorf("StockAvailable = %+v", rec.StockAvailable)
	}

	if _, err := RecordFromRow(row[:5]); err == nil {
		t.Error("expected an error for a short row")
	}
}
