package domain

// LowStockThreshold is the boundary below which a product counts as low
// stock on the admin dashboard.
const LowStockThreshold = 10

type StockLevel int

const (
	StockOut StockLevel = iota // stock == 0
	StockLow                   // 0 < stock < LowStockThreshold
	StockOk
)

// LevelOf classifies a stock count. Every stock-derived view (badges,
// admin alerts) goes through this single function.
func LevelOf(stock int) StockLevel {
	switch {
	case stock <= 0:
		return StockOut
	case stock < LowStockThreshold:
		return StockLow
	default:
		return StockOk
	}
}
