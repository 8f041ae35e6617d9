// Package dump recovers typed records from a SQL Server style dump of
// INSERT statements.
//
// The dump is read line by line. Every statement of the form
//
//	INSERT [INTO] [schema].[Table] (<columns>) VALUES (<values>)
//
// may span several physical lines. Once its value tuple is closed the tuple
// is split into raw tokens and coerced into the record shape of the target
// table. A statement that cannot be coerced is skipped on its own; nothing
// short of an I/O error on the input stops a scan.
package dump

import "fmt"

// Entity names one of the record collections recovered from a dump.
type Entity string

// Entities recognized in a dump. Other marks statements for tables outside
// the known set; they are scanned but never coerced.
const (
	Categories      Entity = "categories"
	Subcategories   Entity = "subcategories"
	Products        Entity = "products"
	ProductImages   Entity = "product_images"
	Clients         Entity = "clients"
	Employees       Entity = "employees"
	CompanySettings Entity = "company_settings"
	Sales           Entity = "sales"
	SaleDetails     Entity = "sale_details"
	Other           Entity = "other"
)

// Entities lists the known entities in output order. Parents come before
// the entities that reference them.
var Entities = []Entity{
	Categories,
	Subcategories,
	Products,
	ProductImages,
	Clients,
	Employees,
	CompanySettings,
	Sales,
	SaleDetails,
}

// sourceTables maps the table name used in the dump to its entity.
var sourceTables = map[Entity]string{
	Categories:      "Categorias",
	Subcategories:   "Subcategorias",
	Products:        "Productos",
	ProductImages:   "ProductoImagenes",
	Clients:         "Clientes",
	Employees:       "Empleado",
	CompanySettings: "ConfiguracionEmpresa",
	Sales:           "Ventas",
	SaleDetails:     "DetalleVentas",
}

// minTokens is the number of values a tuple must carry for each entity.
var minTokens = map[Entity]int{
	Categories:      3,
	Subcategories:   4,
	Products:        12,
	ProductImages:   3,
	Clients:         7,
	Employees:       4,
	CompanySettings: 14,
	Sales:           8,
	SaleDetails:     6,
}

// ParseEntity resolves an entity key such as "sale_details".
func ParseEntity(s string) (Entity, error) {
	for _, e := range Entities {
		if string(e) == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown entity %q", s)
}

// IsKnown reports whether e is one of the nine recognized entities.
func (e Entity) IsKnown() bool {
	_, ok := sourceTables[e]
	return ok
}

// SourceTable returns the dump table name for e, or "" for Other.
func (e Entity) SourceTable() string {
	return sourceTables[e]
}

// MinTokens returns the number of values a tuple for e must carry.
func (e Entity) MinTokens() int {
	return minTokens[e]
}

// Marker returns the bracketed, schema-qualified identifier that introduces
// statements for e in a dump, e.g. "[dbo].[Categorias]".
func (e Entity) Marker(schema string) string {
	table, ok := sourceTables[e]
	if !ok {
		return ""
	}
	return "[" + schema + "].[" + table + "]"
}
