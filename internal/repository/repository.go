// Package repository implementa la persistencia sobre MongoDB.
// Colecciones: products, categories, carts, customers, orders.
package repository

import "errors"

var ErrNotFound = errors.New("registro no encontrado")
