package models

import "sort"

// Cart is the per-session mapping of product id to quantity.
// It is serialized into the session as JSON and never persisted elsewhere.
type Cart struct {
	Items map[int]int `json:"items"`
}

// CartLine is one resolved cart entry
type CartLine struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
	Subtotal float64  `json:"subtotal"`
}

// CartView is a cart resolved against the live catalog
type CartView struct {
	Lines []CartLine `json:"lines"`
	Total float64    `json:"total"`
}

func NewCart() *Cart {
	return &Cart{Items: make(map[int]int)}
}

// Add increases the quantity of productID by qty. Non-positive qty is ignored.
func (c *Cart) Add(productID, qty int) {
	if qty <= 0 {
		return
	}
	if c.Items == nil {
		c.Items = make(map[int]int)
	}
	c.Items[productID] += qty
}

// Remove drops the entry for productID entirely.
func (c *Cart) Remove(productID int) {
	delete(c.Items, productID)
}

// Decrement lowers the quantity by one and deletes the entry at zero.
func (c *Cart) Decrement(productID int) {
	qty, ok := c.Items[productID]
	if !ok {
		return
	}
	if qty <= 1 {
		delete(c.Items, productID)
		return
	}
	c.Items[productID] = qty - 1
}

func (c *Cart) Clear() {
	c.Items = make(map[int]int)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Quantity returns the stored quantity for productID, 0 when absent.
func (c *Cart) Quantity(productID int) int {
	return c.Items[productID]
}

// Count is the total number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, qty := range c.Items {
		n += qty
	}
	return n
}

// ProductIDs returns the ids in the cart in ascending order.
func (c *Cart) ProductIDs() []int {
	ids := make([]int, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Resolve prices the cart against catalog. Ids missing from catalog are skipped.
func (c *Cart) Resolve(catalog map[int]*Product) *CartView {
	view := &CartView{Lines: []CartLine{}}
	for _, id := range c.ProductIDs() {
		product, ok := catalog[id]
		if !ok || product == nil {
			continue
		}
		qty := c.Items[id]
		subtotal := product.Price * float64(qty)
		view.Lines = append(view.Lines, CartLine{
			Product:  product,
			Quantity: qty,
			Subtotal: subtotal,
		})
		view.Total += subtotal
	}
	return view
}

func (v *CartView) IsEmpty() bool {
	return len(v.Lines) == 0
}

// OrderItems snapshots the resolved lines as order items.
func (v *CartView) OrderItems() []OrderItemRequest {
	items := make([]OrderItemRequest, 0, len(v.Lines))
	for _, line := range v.Lines {
		items = append(items, OrderItemRequest{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Quantity:    line.Quantity,
			Price:       line.Product.Price,
		})
	}
	return items
}
