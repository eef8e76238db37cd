package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/shopdesk/internal/domain/customer"
	"github.com/xenking/shopdesk/internal/listingcache"
)

// ListCustomers returns every customer, served through the listing cache.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	v, err := h.listings.Get(r.Context(), listingcache.KeyCustomers, func(ctx context.Context) (any, error) {
		return h.customers.List(ctx)
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	customers := v.([]customer.Customer)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for i := range customers {
				encodeCustomer(e, &customers[i])
			}
		})
	})
}

// GetCustomer returns a single customer by ID.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCustomer(e, c)
	})
}

// CreateCustomer validates the input and inserts a new customer.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCustomerInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := in.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	c, err := h.customers.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.listings.Invalidate(listingcache.KeyCustomers)

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeCustomer(e, c)
	})
}

// UpdateCustomer replaces all writable fields of an existing customer.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := decodeCustomerInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := in.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.customers.Update(r.Context(), id, in); err != nil {
		respondError(w, r, err)
		return
	}
	h.listings.Invalidate(listingcache.KeyCustomers)

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCustomer removes a customer. Dependent orders cascade away with
// it, so the orders listing is invalidated too.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.customers.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.listings.Invalidate(listingcache.KeyCustomers, listingcache.KeyOrders)

	w.WriteHeader(http.StatusNoContent)
}

// GetCustomerOrders returns the customer's orders, most recent first,
// projected to order-facing fields only.
func (h *Handler) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.orders.CustomerOrders(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, co := range orders {
				e.Obj(func(e *jx.Encoder) {
					e.Field("id", func(e *jx.Encoder) { e.Int64(co.ID) })
					e.Field("totalAmount", func(e *jx.Encoder) { e.Int64(co.TotalAmount) })
					e.Field("status", func(e *jx.Encoder) { e.Str(string(co.Status)) })
					e.Field("notes", func(e *jx.Encoder) { e.Str(co.Notes) })
					e.Field("createdAt", func(e *jx.Encoder) { e.Str(co.CreatedAt.Format(time.RFC3339)) })
				})
			}
		})
	})
}

func decodeCustomerInput(r *http.Request) (customer.Input, error) {
	var in customer.Input
	d := jx.Decode(r.Body, 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			in.Name, err = d.Str()
		case "email":
			in.Email, err = d.Str()
		case "phone":
			in.Phone, err = d.Str()
		case "address":
			in.Address, err = d.Str()
		case "postalCode":
			in.PostalCode, err = d.Str()
		case "city":
			in.City, err = d.Str()
		case "notes":
			in.Notes, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	return in, err
}

func encodeCustomer(e *jx.Encoder, c *customer.Customer) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(c.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(c.Name) })
		e.Field("email", func(e *jx.Encoder) { e.Str(c.Email) })
		e.Field("phone", func(e *jx.Encoder) { e.Str(c.Phone) })
		e.Field("address", func(e *jx.Encoder) { e.Str(c.Address) })
		e.Field("postalCode", func(e *jx.Encoder) { e.Str(c.PostalCode) })
		e.Field("city", func(e *jx.Encoder) { e.Str(c.City) })
		e.Field("notes", func(e *jx.Encoder) { e.Str(c.Notes) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(c.CreatedAt.Format(time.RFC3339)) })
	})
}
