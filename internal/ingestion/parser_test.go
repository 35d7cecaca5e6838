package ingestion

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	data := "SKU, Location ID ,On Hand Qty\n287561, SA1474A ,48\n\n113377,SB2001B, 12 \n"

	records, err := Parse("inventory.csv", []byte(data))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Row != 1 {
		t.Fatalf("expected row 1, got %d", first.Row)
	}
	if first.Values["SKU"] != "287561" {
		t.Fatalf("expected SKU 287561, got %q", first.Values["SKU"])
	}
	if first.Values["Location ID"] != "SA1474A" {
		t.Fatalf("expected trimmed location, got %q", first.Values["Location ID"])
	}

	second := records[1]
	if second.Row != 2 {
		t.Fatalf("expected blank line not to advance row numbering, got row %d", second.Row)
	}
	if second.Values["On Hand Qty"] != "12" {
		t.Fatalf("expected trimmed quantity, got %q", second.Values["On Hand Qty"])
	}
}

func TestParseCSVStripsByteOrderMark(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("sku,quantity\nA1,5\n")...)

	records, err := Parse("export.csv", data)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if _, ok := records[0].Values["sku"]; !ok {
		t.Fatalf("BOM leaked into first header: %+v", records[0].Columns)
	}
}

func TestParseCSVMalformedQuoting(t *testing.T) {
	data := "sku,description\nA1,\"unterminated\n"

	_, err := Parse("broken.csv", []byte(data))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Line == 0 {
		t.Fatalf("expected error to carry the offending line")
	}
}

func TestParseCSVColumnCountMismatch(t *testing.T) {
	data := "sku,quantity\nA1,5,extra\n"

	_, err := Parse("ragged.csv", []byte(data))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("report.pdf", []byte("whatever"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]any{"SKU", "Location ID", "On Hand Qty"})
	_ = f.SetSheetRow(sheet, "A2", &[]any{"287561", "SA1474A", 48})
	_ = f.SetSheetRow(sheet, "A4", &[]any{"113377", "SB2001B", 12})

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}

	records, err := Parse("inventory.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Values["SKU"] != "287561" {
		t.Fatalf("unexpected first record: %+v", records[0].Values)
	}
	if records[1].Row != 2 {
		t.Fatalf("expected empty sheet row to be skipped, got row %d", records[1].Row)
	}
}

func TestParseLegacyWorkbookFailsAsParseError(t *testing.T) {
	_, err := Parse("ancient.xls", []byte("not a real workbook"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for unreadable workbook, got %v", err)
	}
}

func TestParseJSON(t *testing.T) {
	data := `[{"sku":"A1","quantity":5,"active":true},{"sku":"","quantity":null}]`

	records, err := Parse("export.json", []byte(data))
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected the all-empty object to be dropped, got %d records", len(records))
	}
	if records[0].Values["quantity"] != "5" {
		t.Fatalf("expected numeric value rendered as string, got %q", records[0].Values["quantity"])
	}
	if records[0].Values["active"] != "true" {
		t.Fatalf("expected bool rendered as string, got %q", records[0].Values["active"])
	}
}

func TestParseJSONNotAnArray(t *testing.T) {
	_, err := Parse("export.json", []byte(`{"sku":"A1"}`))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}
