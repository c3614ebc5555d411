package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"github.com/tiendaapp/tiendastore/internal/webserver"
)

type productCreatePayload struct {
	Name           string                 `json:"name" validate:"required,min=1,max=200"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price" validate:"gte=0"`
	Stock          int                    `json:"stock" validate:"gte=0"`
	Category       string                 `json:"category"`
	ImageUrl       string                 `json:"image_url"`
	ImageTransform *domain.ImageTransform `json:"image_transform"`
	Images         []domain.ProductImage  `json:"images"`
}

// productUpdatePayload uses pointers so omitted fields are left untouched.
type productUpdatePayload struct {
	Name           *string                `json:"name"`
	Description    *string                `json:"description"`
	Price          *float64               `json:"price"`
	Stock          *int                   `json:"stock"`
	Category       *string                `json:"category"`
	ImageUrl       *string                `json:"image_url"`
	ImageTransform *domain.ImageTransform `json:"image_transform"`
	Images         *[]domain.ProductImage `json:"images"`
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

// listProducts returns the whole catalog. Search and pagination are
// client-side concerns; the feed controller owns them.
func listProducts(c echo.Context) error {
	var rows []domain.Product
	if err := webserver.GetDB(c).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error al cargar productos")
	}
	if rows == nil {
		rows = []domain.Product{}
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	var p domain.Product
	if err := webserver.GetDB(c).Where("id = ?", c.Param("id")).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "Producto no encontrado")
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}

	var payload productCreatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Datos de producto inválidos")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Datos de producto inválidos")
	}

	now := time.Now()
	p := domain.Product{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(payload.Name),
		Description:    payload.Description,
		Price:          payload.Price,
		Stock:          payload.Stock,
		Category:       payload.Category,
		ImageUrl:       payload.ImageUrl,
		ImageTransform: payload.ImageTransform,
		Images:         payload.Images,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if p.Images == nil {
		p.Images = []domain.ProductImage{}
	}
	if err := webserver.GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error al guardar producto")
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}

	db := webserver.GetDB(c)
	var p domain.Product
	if err := db.Where("id = ?", c.Param("id")).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "Producto no encontrado")
	}

	var payload productUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Datos de producto inválidos")
	}

	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		if name == "" {
			return fail(c, http.StatusBadRequest, "El nombre es requerido")
		}
		p.Name = name
	}
	if payload.Description != nil {
		p.Description = *payload.Description
	}
	if payload.Price != nil {
		if *payload.Price < 0 {
			return fail(c, http.StatusBadRequest, "El precio no puede ser negativo")
		}
		p.Price = *payload.Price
	}
	if payload.Stock != nil {
		if *payload.Stock < 0 {
			return fail(c, http.StatusBadRequest, "El stock no puede ser negativo")
		}
		p.Stock = *payload.Stock
	}
	if payload.Category != nil {
		p.Category = *payload.Category
	}
	if payload.ImageUrl != nil {
		p.ImageUrl = *payload.ImageUrl
	}
	if payload.ImageTransform != nil {
		p.ImageTransform = payload.ImageTransform
	}
	if payload.Images != nil {
		p.Images = *payload.Images
	}
	p.UpdatedAt = time.Now()

	if err := db.Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error al guardar producto")
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}

	ret := webserver.GetDB(c).Where("id = ?", c.Param("id")).Delete(&domain.Product{})
	if ret.Error != nil {
		return fail(c, http.StatusInternalServerError, "Error al eliminar producto")
	}
	if ret.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "Producto no encontrado")
	}
	return ok(c, echo.Map{"message": "Producto eliminado"})
}
