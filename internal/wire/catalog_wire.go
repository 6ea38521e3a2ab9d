package wire

import (
	"appliance-store/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireCatalog: browsing is public
func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
) {
	r.Get("/api/categories", catalogHandler.ListCategories)
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", catalogHandler.ListProducts)   // GET /api/products?q=&price=0-5000&rating=4&category=&page=1
		r.Get("/{id}", catalogHandler.GetProduct) // GET /api/products/{product-id}
	})
}
