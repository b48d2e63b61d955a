package handler

import "net/http"

// NewMux registers every API route on a fresh ServeMux. System routes are
// skipped when system is nil, which test setups use to avoid standing up a
// connection manager.
func NewMux(catalog *CatalogHandler, solutions *SolutionHandler, system *SystemHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Solutions resource
	mux.HandleFunc("GET /api/solutions", solutions.List)
	mux.HandleFunc("POST /api/solutions", solutions.Create)
	mux.HandleFunc("PUT /api/solutions", solutions.Update)
	mux.HandleFunc("GET /api/solutions/{id}", solutions.Get)
	mux.HandleFunc("DELETE /api/solutions/{id}", solutions.Delete)
	mux.HandleFunc("GET /api/solutions/bug/{id}", solutions.ListByBug)

	// Category resource
	mux.HandleFunc("GET /api/categories", catalog.ListCategories)
	mux.HandleFunc("POST /api/categories", catalog.CreateCategory)
	mux.HandleFunc("GET /api/categories/{id}", catalog.GetCategory)
	mux.HandleFunc("PUT /api/categories/{id}", catalog.UpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", catalog.DeleteCategory)
	mux.HandleFunc("GET /api/categories/{id}/products", catalog.ListCategoryProducts)

	// Product resource
	mux.HandleFunc("GET /api/products", catalog.ListProducts)
	mux.HandleFunc("POST /api/products", catalog.CreateProduct)
	mux.HandleFunc("GET /api/products/{id}", catalog.GetProduct)
	mux.HandleFunc("PUT /api/products/{id}", catalog.UpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", catalog.DeleteProduct)

	// Operational endpoints
	if system != nil {
		mux.HandleFunc("GET /api/health", system.Health)
		mux.HandleFunc("GET /api/stats", system.Stats)
	}

	return mux
}
