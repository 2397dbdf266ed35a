package api

import (
	"database/sql"
	"net/http"

	"github.com/pharmatrack/chaintrackr/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	drugsHandler := &DrugsHandler{DB: db}
	ordersHandler := &OrdersHandler{DB: db}
	inventoryHandler := &InventoryHandler{DB: db}
	deliveriesHandler := &DeliveriesHandler{DB: db}
	qualityHandler := &QualityHandler{DB: db}
	importsHandler := &ImportsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	canCreate := RequireAction(model.ActionCreateDrug)
	canTransfer := RequireAction(model.ActionTransferDrug)
	canSell := RequireAction(model.ActionSellDrug)
	canGenerateQR := RequireAction(model.ActionGenerateQR)
	canScanQR := RequireAction(model.ActionScanQR)
	canManageUsers := RequireAction(model.ActionManageUsers)
	canViewAll := RequireAction(model.ActionViewAll)

	// Public: login and registration.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/wallet", authHandler.WalletLogin)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)

	// Session management.
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(canManageUsers(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(canManageUsers(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(canManageUsers(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(canManageUsers(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(canManageUsers(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(canManageUsers(http.HandlerFunc(usersHandler.Delete))))

	// Drug lifecycle: reads for all roles, mutations per permission table.
	mux.Handle("GET /api/drugs", authMW(http.HandlerFunc(drugsHandler.List)))
	mux.Handle("GET /api/drugs/search", authMW(http.HandlerFunc(drugsHandler.Search)))
	mux.Handle("POST /api/drugs", authMW(canCreate(http.HandlerFunc(drugsHandler.Create))))
	mux.Handle("POST /api/drugs/transfer", authMW(canTransfer(http.HandlerFunc(drugsHandler.Transfer))))
	mux.Handle("POST /api/drugs/sell", authMW(canSell(http.HandlerFunc(drugsHandler.Sell))))
	mux.Handle("POST /api/drugs/refresh-expiry", authMW(http.HandlerFunc(drugsHandler.RefreshExpiry)))
	mux.Handle("GET /api/drugs/{batch}", authMW(http.HandlerFunc(drugsHandler.Get)))
	mux.Handle("GET /api/drugs/{batch}/history", authMW(http.HandlerFunc(drugsHandler.History)))

	// QR tracking codes.
	mux.Handle("POST /api/drugs/{batch}/qr", authMW(canGenerateQR(http.HandlerFunc(drugsHandler.GenerateQR))))
	mux.Handle("GET /api/drugs/{batch}/qr.png", authMW(http.HandlerFunc(drugsHandler.QRImage)))
	mux.Handle("POST /api/qr/verify", authMW(canScanQR(http.HandlerFunc(drugsHandler.Verify))))
	mux.Handle("GET /api/qr/scans", authMW(canScanQR(http.HandlerFunc(drugsHandler.Scans))))
	mux.Handle("DELETE /api/qr/scans", authMW(canViewAll(http.HandlerFunc(drugsHandler.ClearScans))))

	// Orders: any authenticated principal may place one, pharmacies and
	// admins advance them.
	mux.Handle("GET /api/orders", authMW(http.HandlerFunc(ordersHandler.List)))
	mux.Handle("POST /api/orders", authMW(http.HandlerFunc(ordersHandler.Create)))
	mux.Handle("GET /api/orders/{number}", authMW(http.HandlerFunc(ordersHandler.Get)))
	mux.Handle("PUT /api/orders/{number}/status", authMW(canSell(http.HandlerFunc(ordersHandler.UpdateStatus))))

	// Inventory: reads for all, writes for supply chain operators.
	mux.Handle("GET /api/inventory", authMW(http.HandlerFunc(inventoryHandler.List)))
	mux.Handle("GET /api/inventory/search", authMW(http.HandlerFunc(inventoryHandler.Search)))
	mux.Handle("POST /api/inventory", authMW(canTransfer(http.HandlerFunc(inventoryHandler.Upsert))))
	mux.Handle("PUT /api/inventory/{id}", authMW(canTransfer(http.HandlerFunc(inventoryHandler.Adjust))))

	// Deliveries.
	mux.Handle("GET /api/deliveries", authMW(http.HandlerFunc(deliveriesHandler.List)))
	mux.Handle("POST /api/deliveries", authMW(canTransfer(http.HandlerFunc(deliveriesHandler.Create))))
	mux.Handle("PUT /api/deliveries/{id}/status", authMW(canTransfer(http.HandlerFunc(deliveriesHandler.UpdateStatus))))

	// Quality checks and production requests.
	mux.Handle("GET /api/quality-checks", authMW(http.HandlerFunc(qualityHandler.ListChecks)))
	mux.Handle("POST /api/quality-checks", authMW(canCreate(http.HandlerFunc(qualityHandler.CreateCheck))))
	mux.Handle("GET /api/production-requests", authMW(http.HandlerFunc(qualityHandler.ListProductionRequests)))
	mux.Handle("POST /api/production-requests", authMW(canTransfer(http.HandlerFunc(qualityHandler.CreateProductionRequest))))
	mux.Handle("PUT /api/production-requests/{number}/status", authMW(canCreate(http.HandlerFunc(qualityHandler.UpdateProductionStatus))))

	// Bulk CSV import and templates.
	mux.Handle("POST /api/import/drugs", authMW(canCreate(http.HandlerFunc(importsHandler.ImportDrugs))))
	mux.Handle("POST /api/import/transfers", authMW(canTransfer(http.HandlerFunc(importsHandler.ImportTransfers))))
	mux.Handle("POST /api/import/sales", authMW(canSell(http.HandlerFunc(importsHandler.ImportSales))))
	mux.Handle("GET /api/import/templates/{kind}", authMW(http.HandlerFunc(importsHandler.Template)))

	return mux
}
