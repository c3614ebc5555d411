package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"github.com/tiendaapp/tiendastore/internal/notify"
	"github.com/tiendaapp/tiendastore/internal/webserver"
	"gorm.io/gorm"
)

type purchasePayload struct {
	UserEmail string `json:"user_email" validate:"required"`
	UserName  string `json:"user_name" validate:"required"`
	UserPhone string `json:"user_phone" validate:"required"`
	ProductId string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type outOfStockPayload struct {
	ProductId string `json:"product_id" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

type customPayload struct {
	Phone       string `json:"phone" validate:"required"`
	Description string `json:"description" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=1"`
}

func registerRequestRoutes() {
	webserver.ApiGET("/requests", listRequests)
	webserver.ApiPOST("/requests/purchase", createPurchaseRequest)
	webserver.ApiPOST("/requests/out-of-stock", createOutOfStockRequest)
	webserver.ApiPOST("/requests/custom", createCustomRequest)
	webserver.ApiPUT("/requests/purchase/:id/complete", completePurchaseRequest)
	webserver.ApiPUT("/requests/purchase/:id/reject", rejectPurchaseRequest)
	webserver.ApiPUT("/requests/out-of-stock/:id/complete", completeOutOfStockRequest)
	webserver.ApiPUT("/requests/custom/:id/complete", completeCustomRequest)
}

// createPurchaseRequest records a purchase intent, snapshots the total at
// the current price and decrements stock in the same transaction.
func createPurchaseRequest(c echo.Context) error {
	var payload purchasePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}

	db := webserver.GetDB(c)

	if webserver.AppCtx().Config().Verify.RequireForPurchase &&
		!isPhoneVerified(db, payload.UserPhone) {
		return fail(c, http.StatusForbidden, "Debes verificar tu teléfono")
	}

	var product domain.Product
	if err := db.Where("id = ?", payload.ProductId).First(&product).Error; err != nil {
		return fail(c, http.StatusNotFound, "Producto no encontrado")
	}
	if product.Stock < payload.Quantity {
		return fail(c, http.StatusBadRequest, "Stock insuficiente")
	}

	purchase := domain.PurchaseRequest{
		ID:          uuid.NewString(),
		UserEmail:   payload.UserEmail,
		UserName:    payload.UserName,
		UserPhone:   payload.UserPhone,
		ProductId:   product.ID,
		ProductName: product.Name,
		Quantity:    payload.Quantity,
		TotalPrice:  product.Price * float64(payload.Quantity),
		Status:      domain.RequestPending,
		CreatedAt:   time.Now(),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Product{}).
			Where("id = ?", product.ID).
			Update("stock", gorm.Expr("stock - ?", payload.Quantity)).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error al crear solicitud")
	}

	webserver.AppCtx().Bus().Publish(notify.TopicPurchaseCreated, &purchase)
	return ok(c, purchase)
}

// createOutOfStockRequest registers backorder interest. It never touches
// stock and is only valid for products that are actually sold out.
func createOutOfStockRequest(c echo.Context) error {
	var payload outOfStockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}

	db := webserver.GetDB(c)
	var product domain.Product
	if err := db.Where("id = ?", payload.ProductId).First(&product).Error; err != nil {
		return fail(c, http.StatusNotFound, "Producto no encontrado")
	}
	if product.Stock > 0 {
		return fail(c, http.StatusBadRequest, "El producto tiene stock disponible")
	}

	req := domain.OutOfStockRequest{
		ID:          uuid.NewString(),
		ProductId:   product.ID,
		ProductName: product.Name,
		Phone:       payload.Phone,
		Quantity:    payload.Quantity,
		Verified:    isPhoneVerified(db, payload.Phone),
		Status:      domain.RequestPending,
		CreatedAt:   time.Now(),
	}
	if err := db.Create(&req).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error al crear solicitud")
	}

	webserver.AppCtx().Bus().Publish(notify.TopicOutOfStockCreated, &req)
	return ok(c, req)
}

func createCustomRequest(c echo.Context) error {
	var payload customPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}

	db := webserver.GetDB(c)
	req := domain.CustomRequest{
		ID:          uuid.NewString(),
		Phone:       payload.Phone,
		Description: payload.Description,
		Quantity:    payload.Quantity,
		Verified:    isPhoneVerified(db, payload.Phone),
		Status:      domain.RequestPending,
		CreatedAt:   time.Now(),
	}
	if err := db.Create(&req).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error al crear solicitud")
	}

	webserver.AppCtx().Bus().Publish(notify.TopicCustomCreated, &req)
	return ok(c, req)
}

// listRequests returns the admin inbox: all three request kinds grouped.
func listRequests(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}

	db := webserver.GetDB(c)
	purchases := []domain.PurchaseRequest{}
	outOfStock := []domain.OutOfStockRequest{}
	custom := []domain.CustomRequest{}
	db.Order("created_at DESC").Find(&purchases)
	db.Order("created_at DESC").Find(&outOfStock)
	db.Order("created_at DESC").Find(&custom)

	return ok(c, echo.Map{
		"purchase_requests":     purchases,
		"out_of_stock_requests": outOfStock,
		"custom_requests":       custom,
	})
}

func completePurchaseRequest(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}
	return completeRequest(c, &domain.PurchaseRequest{})
}

// rejectPurchaseRequest cancels a pending purchase and restores its stock.
func rejectPurchaseRequest(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}

	db := webserver.GetDB(c)

	var purchase domain.PurchaseRequest
	if err := db.Where("id = ?", c.Param("id")).First(&purchase).Error; err != nil {
		return fail(c, http.StatusNotFound, "Solicitud no encontrada")
	}
	if purchase.Status != domain.RequestPending {
		return fail(c, http.StatusBadRequest, "La solicitud ya ha sido procesada")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.PurchaseRequest{}).
			Where("id = ?", purchase.ID).
			Update("status", domain.RequestRejected).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Product{}).
			Where("id = ?", purchase.ProductId).
			Update("stock", gorm.Expr("stock + ?", purchase.Quantity)).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error al restituir stock")
	}
	return ok(c, echo.Map{"message": "Solicitud rechazada y stock restituido"})
}

func completeOutOfStockRequest(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}
	return completeRequest(c, &domain.OutOfStockRequest{})
}

func completeCustomRequest(c echo.Context) error {
	if admin, err := requireAdmin(c); admin == nil {
		return err
	}
	return completeRequest(c, &domain.CustomRequest{})
}

func completeRequest(c echo.Context, model interface{}) error {
	ret := webserver.GetDB(c).Model(model).
		Where("id = ?", c.Param("id")).
		Update("status", domain.RequestCompleted)
	if ret.Error != nil {
		return fail(c, http.StatusInternalServerError, "Error al actualizar solicitud")
	}
	if ret.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "Solicitud no encontrada")
	}
	return ok(c, echo.Map{"message": "Solicitud marcada como completada"})
}

func isPhoneVerified(db *gorm.DB, phone string) bool {
	var count int64
	db.Model(&domain.VerifiedPhone{}).Where("phone = ?", phone).Count(&count)
	return count > 0
}
