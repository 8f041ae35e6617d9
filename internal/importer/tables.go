package importer

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/dumpmigrate/internal/dump"
)

// TimeLayout is the format of every timestamp written by an import.
const TimeLayout = "2006-01-02 15:04:05"

// table describes the destination table of one entity and how its records
// become rows.
type table struct {
	name    string
	columns []string
	rows    func(records []dump.Record, now string) [][]interface{}
}

var tables = map[dump.Entity]table{
	dump.Categories: {
		name:    "Categories",
		columns: []string{"Id", "Name", "IsActive", "CreatedAt", "UpdatedAt"},
		rows: func(records []dump.Record, now string) [][]interface{} {
			return each(records, func(c dump.Category) []interface{} {
				return []interface{}{c.ID, nullable(c.Name), c.IsActive, now, now}
			})
		},
	},
	dump.Subcategories: {
		name:    "Subcategories",
		columns: []string{"Id", "Name", "CategoryId", "IsActive", "CreatedAt", "UpdatedAt"},
		rows: func(records []dump.Record, now string) [][]interface{} {
			return each(records, func(s dump.Subcategory) []interface{} {
				return []interface{}{s.ID, nullable(s.Name), s.CategoryID, s.IsActive, now, now}
			})
		},
	},
	dump.Products: {
		name: "Products",
		columns: []string{
			"Id", "Name", "Description", "Price", "Cost", "Stock",
			"SKU", "Barcode", "ImageUrl", "VideoUrl",
			"CategoryId", "SubcategoryId", "IsActive", "CreatedAt", "UpdatedAt",
		},
		rows: func(records []dump.Record, now string) [][]interface{} {
			return each(records, func(p dump.Product) []interface{} {
				createdAt := now
				if p.Date != nil {
					createdAt = strings.Replace(*p.Date, "T", " ", 1)
				}
				return []interface{}{
					p.ID, nullable(p.Name), nullable(p.Description), p.Price, p.Cost, p.Stock,
					SKU(p), Barcode(p.ID), nullable(p.ImageURL), nullable(p.VideoURL),
					p.CategoryID, nullableInt(p.SubcategoryID), p.IsActive, createdAt, now,
				}
			})
		},
	},
	dump.ProductImages: {
		name:    "ProductImages",
		columns: []string{"Id", "ProductId", "Url", "IsCover", "Order"},
		rows: func(records []dump.Record, _ string) [][]interface{} {
			position := make(map[int]int)
			return each(records, func(img dump.ProductImage) []interface{} {
				order := position[img.ProductID]
				position[img.ProductID]++
				return []interface{}{img.ID, img.ProductID, nullable(img.URL), order == 0, order}
			})
		},
	},
	dump.Clients: {
		name:    "Clients",
		columns: []string{"Id", "Name", "CedulaRuc", "Phone", "Address", "Email", "RegisteredAt"},
		rows: func(records []dump.Record, now string) [][]interface{} {
			return each(records, func(c dump.Client) []interface{} {
				registered := now
				if c.RegisteredAt != nil {
					registered = strings.Replace(*c.RegisteredAt, "T", " ", 1)
				}
				return []interface{}{
					c.ID, nullable(c.Name), nullable(c.CedulaRuc), nullable(c.Phone),
					nullable(c.Address), nullable(c.Email), registered,
				}
			})
		},
	},
	dump.Employees: {
		name:    "Employees",
		columns: []string{"Id", "Name", "Role", "IsActive"},
		rows: func(records []dump.Record, _ string) [][]interface{} {
			return each(records, func(e dump.Employee) []interface{} {
				return []interface{}{e.ID, nullable(e.Name), nullable(e.Role), e.IsActive}
			})
		},
	},
	dump.CompanySettings: {
		name: "CompanySettings",
		columns: []string{
			"Id", "Name", "Ruc", "Address", "Phone", "Email", "LegalMessage",
			"SriAuth", "Establishment", "PointOfIssue", "CurrentSequence",
			"ExpirationDate", "SocialReason",
		},
		rows: func(records []dump.Record, _ string) [][]interface{} {
			return each(records, func(c dump.CompanySetting) []interface{} {
				return []interface{}{
					c.ID, nullable(c.Name), nullable(c.Ruc), nullable(c.Address),
					nullable(c.Phone), nullable(c.Email), nullable(c.LegalMessage),
					nullable(c.SriAuth), nullable(c.Establishment), nullable(c.PointOfIssue),
					c.CurrentSequence, nullable(c.ExpirationDate), nullable(c.SocialReason),
				}
			})
		},
	},
	dump.Sales: {
		name:    "Sales",
		columns: []string{"Id", "Date", "EmployeeId", "Total", "Observation", "ClientId", "NoteNumber", "IsVoid"},
		rows: func(records []dump.Record, now string) [][]interface{} {
			return each(records, func(s dump.Sale) []interface{} {
				date := now
				if s.Date != nil {
					date = strings.Replace(*s.Date, "T", " ", 1)
				}
				return []interface{}{
					s.ID, date, s.EmployeeID, s.Total, nullable(s.Observation),
					nullableInt(s.ClientID), nullable(s.NoteNumber), s.IsVoid,
				}
			})
		},
	},
	dump.SaleDetails: {
		name:    "SaleDetails",
		columns: []string{"Id", "SaleId", "ProductId", "Quantity", "Subtotal", "UnitPrice"},
		rows: func(records []dump.Record, _ string) [][]interface{} {
			return each(records, func(d dump.SaleDetail) []interface{} {
				return []interface{}{d.ID, d.SaleID, d.ProductID, d.Quantity, d.Subtotal, d.UnitPrice}
			})
		},
	},
}

// TableName returns the destination table that receives entity e.
func TableName(e dump.Entity) string {
	return tables[e].name
}

// Columns returns the destination column list of entity e in insert order.
func Columns(e dump.Entity) []string {
	return tables[e].columns
}

// SKU derives a product's stock keeping unit: "RE-", the first three
// letters of its name upper-cased, "-" and the product id.
// Example: SKU of product 10 "Orange Juice" -> "RE-ORA-10"
func SKU(p dump.Product) string {
	var prefix string
	if p.Name != nil {
		runes := []rune(*p.Name)
		if len(runes) > 3 {
			runes = runes[:3]
		}
		prefix = strings.ToUpper(string(runes))
	}
	return fmt.Sprintf("RE-%s-%d", prefix, p.ID)
}

// Barcode derives a product's placeholder barcode.
func Barcode(id int) string {
	return fmt.Sprintf("BAR-%d", id)
}

// each converts every record of type T with fn. Records of another type
// are skipped.
func each[T dump.Record](records []dump.Record, fn func(T) []interface{}) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.(T); ok {
			rows = append(rows, fn(v))
		}
	}
	return rows
}

// nullable unwraps an optional string so NULL reaches the driver as nil.
func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}
