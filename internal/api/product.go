package api

import (
	"context"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/shopdesk/internal/domain/product"
	"github.com/xenking/shopdesk/internal/listingcache"
)

// ListProducts returns every product, served through the listing cache.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	v, err := h.listings.Get(r.Context(), listingcache.KeyProducts, func(ctx context.Context) (any, error) {
		return h.products.List(ctx)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	products := v.([]product.Product)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range products {
				encodeProduct(e, &products[i])
			}
		})
	})
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProduct(e, p)
	})
}

// CreateProduct validates the input and inserts a new product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	in, err := decodeProductInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := in.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.listings.Invalidate(listingcache.KeyProducts)

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeProduct(e, p)
	})
}

// UpdateProduct replaces all writable fields of an existing product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := decodeProductInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := in.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.products.Update(r.Context(), id, in); err != nil {
		respondError(w, r, err)
		return
	}
	h.listings.Invalidate(listingcache.KeyProducts)

	w.WriteHeader(http.StatusNoContent)
}

// DeleteProduct removes a product. Dependent orders cascade away with it,
// so the orders listing is invalidated too.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.listings.Invalidate(listingcache.KeyProducts, listingcache.KeyOrders)

	w.WriteHeader(http.StatusNoContent)
}

func decodeProductInput(r *http.Request) (product.Input, error) {
	var in product.Input
	d := jx.Decode(r.Body, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			in.Name, err = d.Str()
		case "description":
			in.Description, err = d.Str()
		case "price":
			in.Price, err = d.Int64()
		case "stock":
			in.Stock, err = d.Int64()
		default:
			err = d.Skip()
		}
		return err
	})
	return in, err
}

func encodeProduct(e *jx.Encoder, p *product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("price", func(e *jx.Encoder) { e.Int64(p.Price) })
		e.Field("stock", func(e *jx.Encoder) { e.Int64(p.Stock) })
	})
}
