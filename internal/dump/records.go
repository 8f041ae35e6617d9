package dump

// Record is one typed row recovered from a dump.
type Record interface {
	Entity() Entity
	// PrimaryKey returns the row's id column.
	PrimaryKey() int
}

// Category is a row of [Categorias].
type Category struct {
	ID       int     `json:"id"`
	Name     *string `json:"name"`
	IsActive bool    `json:"isActive"`
}

// Subcategory is a row of [Subcategorias].
type Subcategory struct {
	ID         int     `json:"id"`
	Name       *string `json:"name"`
	CategoryID int     `json:"categoryId"`
	IsActive   bool    `json:"isActive"`
}

// Product is a row of [Productos].
type Product struct {
	ID            int     `json:"id"`
	Name          *string `json:"name"`
	CategoryID    int     `json:"categoryId"`
	Stock         int     `json:"stock"`
	Price         float64 `json:"price"`
	Date          *string `json:"date"`
	IsActive      bool    `json:"isActive"`
	Description   *string `json:"description"`
	SubcategoryID *int    `json:"subcategoryId"`
	ImageURL      *string `json:"imageUrl"`
	Cost          float64 `json:"cost"`
	VideoURL      *string `json:"videoUrl"`
}

// ProductImage is a row of [ProductoImagenes].
type ProductImage struct {
	ID        int     `json:"id"`
	ProductID int     `json:"productId"`
	URL       *string `json:"url"`
}

// Client is a row of [Clientes].
type Client struct {
	ID           int     `json:"id"`
	Name         *string `json:"name"`
	CedulaRuc    *string `json:"cedulaRuc"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Email        *string `json:"email"`
	RegisteredAt *string `json:"registeredAt"`
}

// Employee is a row of [Empleado].
type Employee struct {
	ID       int     `json:"id"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive bool    `json:"isActive"`
}

// CompanySetting is a row of [ConfiguracionEmpresa]. The dump carries an
// eighth column that is not kept.
type CompanySetting struct {
	ID              int     `json:"id"`
	Name            *string `json:"name"`
	Ruc             *string `json:"ruc"`
	Address         *string `json:"address"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email"`
	LegalMessage    *string `json:"legalMessage"`
	SriAuth         *string `json:"sriAuth"`
	Establishment   *string `json:"establishment"`
	PointOfIssue    *string `json:"pointOfIssue"`
	CurrentSequence int     `json:"currentSequence"`
	ExpirationDate  *string `json:"expirationDate"`
	SocialReason    *string `json:"socialReason"`
}

// Sale is a row of [Ventas].
type Sale struct {
	ID          int     `json:"id"`
	Date        *string `json:"date"`
	EmployeeID  int     `json:"employeeId"`
	Total       float64 `json:"total"`
	Observation *string `json:"observation"`
	ClientID    *int    `json:"clientId"`
	NoteNumber  *string `json:"noteNumber"`
	IsVoid      bool    `json:"isVoid"`
}

// SaleDetail is a row of [DetalleVentas].
type SaleDetail struct {
	ID        int     `json:"id"`
	SaleID    int     `json:"saleId"`
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
	UnitPrice float64 `json:"unitPrice"`
}

func (Category) Entity() Entity { return Categories }
func (Subcategory) Entity() Entity { return Subcategories }
func (Product) Entity() Entity { return Products }
func (ProductImage) Entity() Entity { return ProductImages }
func (Client) Entity() Entity { return Clients }
func (Employee) Entity() Entity { return Employees }
func (CompanySetting) Entity() Entity { return CompanySettings }
func (Sale) Entity() Entity { return Sales }
func (SaleDetail) Entity() Entity { return SaleDetails }

func (c Category) PrimaryKey() int { return c.ID }
func (s Subcategory) PrimaryKey() int { return s.ID }
func (p Product) PrimaryKey() int { return p.ID }
func (i ProductImage) PrimaryKey() int { return i.ID }
func (c Client) PrimaryKey() int { return c.ID }
func (e Employee) PrimaryKey() int { return e.ID }
func (c CompanySetting) PrimaryKey() int { return c.ID }
func (s Sale) PrimaryKey() int { return s.ID }
func (d SaleDetail) PrimaryKey() int { return d.ID }
