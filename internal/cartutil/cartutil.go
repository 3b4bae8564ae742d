// Package cartutil reúne la aritmética pura del carrito: totales,
// tope de cantidad por producto y expiración. Ninguna función toca
// persistencia.
package cartutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tienda-backend/internal/model"
)

const (
	MaxQuantityPerItem  = 10
	CartExpirationHours = 24
)

// GenerateCartID genera un ID con el formato cart_<epoch-ms>_<random>.
func GenerateCartID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
	return fmt.Sprintf("cart_%d_%s", time.Now().UnixMilli(), suffix)
}

// HasExpired indica si el carrito lleva 24 horas o más sin actividad.
// Las horas se calculan con fracción a partir de la diferencia en ms.
func HasExpired(lastModified time.Time) bool {
	diffHours := float64(time.Since(lastModified).Milliseconds()) / (1000 * 60 * 60)
	return diffHours >= CartExpirationHours
}

// TotalItems suma las cantidades de todas las líneas.
func TotalItems(items []model.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// TotalAmount suma cantidad × precio snapshot de cada línea.
// La suma se hace con decimales para no arrastrar error binario.
func TotalAmount(items []model.CartItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.PriceAtPurchase).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}

// CanAddMoreItems verifica el tope de 10 unidades por línea de producto.
func CanAddMoreItems(currentQuantity, toAdd int) bool {
	return currentQuantity+toAdd <= MaxQuantityPerItem
}

// NewCartItem crea una línea nueva congelando el precio actual del producto.
func NewCartItem(product *model.Product, quantity int) model.CartItem {
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return model.CartItem{
		ProductID:       product.ID.Hex(),
		Quantity:        quantity,
		AddedAt:         time.Now(),
		PriceAtPurchase: product.Price,
		Product: model.ProductSnapshot{
			Name:        product.Name,
			Slug:        product.Slug,
			Description: product.Description,
			Image:       image,
		},
	}
}

// FormatPrice formatea un monto en pesos para mostrar ($ 1.234,56).
// Es solo presentación: la aritmética siempre usa los montos crudos.
func FormatPrice(amount float64) string {
	fixed := decimal.NewFromFloat(amount).StringFixed(2)

	parts := strings.SplitN(fixed, ".", 2)
	intPart, decPart := parts[0], parts[1]

	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s$ %s,%s", sign, b.String(), decPart)
}
