package app

import (
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/tiendaapp/tiendastore/config"
	"github.com/tiendaapp/tiendastore/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	loglevel := gormlogger.Silent
	if cfg.Debug {
		loglevel = gormlogger.Info
	}
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(loglevel)}

	switch cfg.Type {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(path.Join(workdir, cfg.Name+".db")), gormCfg)
		if err != nil {
			panic(err)
		}
		return db
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.Passwd)
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			panic(err)
		}
		return db
	}
}

// checkConfig ensures the singleton notification config row exists so the
// admin dashboard always has something to read.
func (a *Application) checkConfig() {
	var count int64
	a.gormDB.Model(&domain.NotifyConfig{}).Count(&count)
	if count == 0 {
		if err := a.gormDB.Create(&domain.NotifyConfig{Email: "", Phone: ""}).Error; err != nil {
			zap.L().Error("failed to initialize notify config", zap.Error(err))
		} else {
			zap.L().Info("initialized empty notify config")
		}
	}
}

// checkDemoCatalog seeds a handful of products on an empty debug database.
func (a *Application) checkDemoCatalog() {
	var count int64
	a.gormDB.Model(&domain.Product{}).Count(&count)
	if count > 0 {
		return
	}

	demoProducts := []domain.Product{
		{Name: "Jabón artesanal", Description: "Jabón de avena y miel hecho a mano", Price: 45, Stock: 20, Category: "Cuidado personal"},
		{Name: "Café orgánico", Description: "Café de altura tostado medio, bolsa de 1lb", Price: 180, Stock: 8, Category: "Alimentos"},
		{Name: "Canasta de mimbre", Description: "Canasta tejida a mano, tamaño mediano", Price: 250, Stock: 0, Category: "Hogar"},
	}
	for _, p := range demoProducts {
		p.ID = uuid.NewString()
		p.CreatedAt = time.Now()
		p.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&p).Error; err != nil {
			zap.L().Error("failed to seed demo product", zap.String("name", p.Name), zap.Error(err))
		} else {
			zap.L().Info("seeded demo product", zap.String("name", p.Name))
		}
	}
}
