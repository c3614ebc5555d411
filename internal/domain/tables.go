package domain

var Tables = []interface{}{
	// Catalog
	&Product{},
	// Requests
	&PurchaseRequest{},
	&OutOfStockRequest{},
	&CustomRequest{},
	// Phone verification
	&PendingVerification{},
	&VerifiedPhone{},
	// Auth
	&User{},
	&UserSession{},
	// Settings
	&NotifyConfig{},
}
