package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/dumpmigrate/internal/dump"
)

func TestSKU(t *testing.T) {
	tests := []struct {
		name     string
		product  dump.Product
		expected string
	}{
		{"long name", dump.Product{ID: 10, Name: strp("Orange Juice")}, "RE-ORA-10"},
		{"short name", dump.Product{ID: 1, Name: strp("ab")}, "RE-AB-1"},
		{"accented name", dump.Product{ID: 2, Name: strp("ñandú")}, "RE-ÑAN-2"},
		{"leading space kept", dump.Product{ID: 3, Name: strp(" tea")}, "RE- TE-3"},
		{"missing name", dump.Product{ID: 4}, "RE--4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SKU(tt.product))
		})
	}
}

func TestBarcode(t *testing.T) {
	assert.Equal(t, "BAR-10", Barcode(10))
}

func TestProductRows(t *testing.T) {
	records := []dump.Record{
		dump.Product{ID: 1, Name: strp("Tea"), Date: strp("2026-01-06T14:32:27.300")},
		dump.Product{ID: 2, Name: strp("Coffee")},
	}

	rows := tables[dump.Products].rows(records, nowText)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], len(Columns(dump.Products)))

	assert.Equal(t, "2026-01-06 14:32:27.300", rows[0][13])
	assert.Equal(t, nowText, rows[0][14])
	// Missing date falls back to the import time
	assert.Equal(t, nowText, rows[1][13])
}

func TestProductImageRows(t *testing.T) {
	records := []dump.Record{
		dump.ProductImage{ID: 1, ProductID: 10},
		dump.ProductImage{ID: 2, ProductID: 11},
		dump.ProductImage{ID: 3, ProductID: 10},
		dump.ProductImage{ID: 4, ProductID: 10},
	}

	rows := tables[dump.ProductImages].rows(records, nowText)
	require.Len(t, rows, 4)

	cover := []interface{}{rows[0][3], rows[1][3], rows[2][3], rows[3][3]}
	order := []interface{}{rows[0][4], rows[1][4], rows[2][4], rows[3][4]}
	assert.Equal(t, []interface{}{true, true, false, false}, cover)
	assert.Equal(t, []interface{}{0, 0, 1, 2}, order)
}

func TestRowsMatchColumns(t *testing.T) {
	samples := map[dump.Entity]dump.Record{
		dump.Categories:      dump.Category{},
		dump.Subcategories:   dump.Subcategory{},
		dump.Products:        dump.Product{},
		dump.ProductImages:   dump.ProductImage{},
		dump.Clients:         dump.Client{},
		dump.Employees:       dump.Employee{},
		dump.CompanySettings: dump.CompanySetting{},
		dump.Sales:           dump.Sale{},
		dump.SaleDetails:     dump.SaleDetail{},
	}

	for _, e := range dump.Entities {
		t.Run(string(e), func(t *testing.T) {
			assert.NotEmpty(t, TableName(e))
			rows := tables[e].rows([]dump.Record{samples[e]}, nowText)
			require.Len(t, rows, 1)
			assert.Len(t, rows[0], len(Columns(e)))
			assert.Equal(t, "Id", Columns(e)[0])
		})
	}
}

func TestRowsSkipForeignRecords(t *testing.T) {
	rows := tables[dump.Categories].rows([]dump.Record{dump.Sale{ID: 1}}, nowText)
	assert.Empty(t, rows)
}

func TestNullableOptionalFields(t *testing.T) {
	sub := 4
	rows := tables[dump.Products].rows([]dump.Record{dump.Product{ID: 1, SubcategoryID: &sub}}, nowText)
	assert.Equal(t, 4, rows[0][11])
	assert.Nil(t, rows[0][2])
}
