package models

// All lists every model managed by the relational store, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&Collection{},
		&Cart{},
		&Wishlist{},
		&Order{},
		&Outfit{},
		&PaymentMethod{},
	}
}
