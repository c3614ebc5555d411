package app

import (
	"time"

	"github.com/tiendaapp/tiendastore/internal/domain"
	"go.uber.org/zap"
)

// TopicLowStock is published with the list of low/out-of-stock products by
// the daily inventory sweep.
const TopicLowStock = "inventory.low_stock"

func (a *Application) initJobs() {
	_, err := a.sched.AddFunc("@every 1h", a.purgeExpiredSessions)
	if err != nil {
		zap.S().Errorf("add session purge job: %v", err)
	}
	_, err = a.sched.AddFunc("@every 15m", a.purgeStalePendingVerifications)
	if err != nil {
		zap.S().Errorf("add verification purge job: %v", err)
	}
	_, err = a.sched.AddFunc("@daily", a.reportLowStock)
	if err != nil {
		zap.S().Errorf("add low stock report job: %v", err)
	}
	a.sched.Start()
}

func (a *Application) purgeExpiredSessions() {
	ret := a.gormDB.Where("expires_at < ?", time.Now()).Delete(&domain.UserSession{})
	if ret.Error != nil {
		zap.L().Error("session purge failed", zap.Error(ret.Error))
		return
	}
	if ret.RowsAffected > 0 {
		zap.L().Info("purged expired sessions", zap.Int64("count", ret.RowsAffected))
	}
}

func (a *Application) purgeStalePendingVerifications() {
	ttl := time.Duration(a.appConfig.Verify.PendingTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	ret := a.gormDB.Where("created_at < ?", time.Now().Add(-ttl)).
		Delete(&domain.PendingVerification{})
	if ret.Error != nil {
		zap.L().Error("pending verification purge failed", zap.Error(ret.Error))
		return
	}
	if ret.RowsAffected > 0 {
		zap.L().Info("purged stale verification codes", zap.Int64("count", ret.RowsAffected))
	}
}

// reportLowStock publishes the products under the restock threshold so the
// notification dispatcher can email a daily summary.
func (a *Application) reportLowStock() {
	var products []domain.Product
	if err := a.gormDB.
		Where("stock < ?", domain.LowStockThreshold).
		Order("stock ASC").
		Find(&products).Error; err != nil {
		zap.L().Error("low stock sweep failed", zap.Error(err))
		return
	}
	if len(products) == 0 {
		return
	}
	a.bus.Publish(TopicLowStock, products)
}
