package graph

import "github.com/dbsmedya/dumpmigrate/internal/dump"

// Relation is a foreign key from Child's table to Parent's table.
type Relation struct {
	Parent     dump.Entity
	Child      dump.Entity
	ForeignKey string
}

// Relations lists the foreign keys between the destination tables.
var Relations = []Relation{
	{Parent: dump.Categories, Child: dump.Subcategories, ForeignKey: "CategoryId"},
	{Parent: dump.Categories, Child: dump.Products, ForeignKey: "CategoryId"},
	{Parent: dump.Subcategories, Child: dump.Products, ForeignKey: "SubcategoryId"},
	{Parent: dump.Products, Child: dump.ProductImages, ForeignKey: "ProductId"},
	{Parent: dump.Clients, Child: dump.Sales, ForeignKey: "ClientId"},
	{Parent: dump.Employees, Child: dump.Sales, ForeignKey: "EmployeeId"},
	{Parent: dump.Sales, Child: dump.SaleDetails, ForeignKey: "SaleId"},
	{Parent: dump.Products, Child: dump.SaleDetails, ForeignKey: "ProductId"},
}

// Build returns the dependency graph restricted to entities. Relations with
// an endpoint outside the selection are left out, so the selected tables
// can be ordered on their own.
func Build(entities []dump.Entity) *Graph {
	g := NewGraph()
	for _, e := range entities {
		g.AddNode(e)
	}
	for _, rel := range Relations {
		if g.HasNode(rel.Parent) && g.HasNode(rel.Child) {
			g.AddEdge(rel.Parent, rel.Child, rel.ForeignKey)
		}
	}
	return g
}

// Full returns the dependency graph of all known entities.
func Full() *Graph {
	return Build(dump.Entities)
}
