package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/shopdesk/internal/domain/order"
	"github.com/xenking/shopdesk/internal/listingcache"
)

// ListOrders returns every order, most recent first, served through the
// listing cache.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	v, err := h.listings.Get(r.Context(), listingcache.KeyOrders, func(ctx context.Context) (any, error) {
		return h.orders.List(ctx)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	orders := v.([]order.Order)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range orders {
				encodeOrder(e, &orders[i])
			}
		})
	})
}

// CreateOrder runs the order workflow: validation, price snapshot, and
// the atomic order-insert / stock-decrement. Both the orders and
// products listings change on success.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateOrder(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	o, err := h.orders.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.listings.Invalidate(listingcache.KeyOrders, listingcache.KeyProducts)

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeOrder(e, o)
	})
}

// GetOrderDetails returns the order merged with its customer and
// product. Either join side may be null if independently deleted.
func (h *Handler) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := h.orders.Detail(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			encodeOrderFields(e, &d.Order)
			e.Field("customer", func(e *jx.Encoder) {
				if d.Customer == nil {
					e.Null()
					return
				}
				encodeCustomer(e, d.Customer)
			})
			e.Field("product", func(e *jx.Encoder) {
				if d.Product == nil {
					e.Null()
					return
				}
				encodeProduct(e, d.Product)
			})
		})
	})
}

// UpdateOrderStatus overwrites the status of an existing order. Stock is
// never restored, whatever the target status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var status string
	d := jx.Decode(r.Body, 512)
	decErr := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "status":
			status, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if decErr != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, status); err != nil {
		respondError(w, r, err)
		return
	}
	h.listings.Invalidate(listingcache.KeyOrders)

	w.WriteHeader(http.StatusNoContent)
}

// DeleteOrder removes an order without restoring stock.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.listings.Invalidate(listingcache.KeyOrders)

	w.WriteHeader(http.StatusNoContent)
}

func decodeCreateOrder(r *http.Request) (order.CreateRequest, error) {
	var req order.CreateRequest
	d := jx.Decode(r.Body, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "customerId":
			req.CustomerID, err = d.Int64()
		case "productId":
			req.ProductID, err = d.Int64()
		case "quantity":
			req.Quantity, err = d.Int64()
		case "status":
			req.Status, err = d.Str()
		case "deliveryAddress":
			req.DeliveryAddress, err = d.Str()
		case "notes":
			req.Notes, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return req, err
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.Obj(func(e *jx.Encoder) {
		encodeOrderFields(e, o)
	})
}

// encodeOrderFields writes the order's own fields; the caller owns the
// surrounding object so details can append the join sides.
func encodeOrderFields(e *jx.Encoder, o *order.Order) {
	e.Field("id", func(e *jx.Encoder) { e.Int64(o.ID) })
	e.Field("customerId", func(e *jx.Encoder) { e.Int64(o.CustomerID) })
	e.Field("productId", func(e *jx.Encoder) { e.Int64(o.ProductID) })
	e.Field("quantity", func(e *jx.Encoder) { e.Int64(o.Quantity) })
	e.Field("priceAtTime", func(e *jx.Encoder) { e.Int64(o.PriceAtTime) })
	e.Field("totalAmount", func(e *jx.Encoder) { e.Int64(o.TotalAmount) })
	e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
	e.Field("deliveryAddress", func(e *jx.Encoder) { e.Str(o.DeliveryAddress) })
	e.Field("notes", func(e *jx.Encoder) { e.Str(o.Notes) })
	e.Field("createdAt", func(e *jx.Encoder) { e.Str(o.CreatedAt.Format(time.RFC3339)) })
}
