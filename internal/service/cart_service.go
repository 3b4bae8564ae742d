package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tienda-backend/internal/cartutil"
	"tienda-backend/internal/model"
	"tienda-backend/internal/repository"
)

type CartRepository interface {
	Save(ctx context.Context, cart *model.Cart) error
	FindByID(ctx context.Context, id string) (*model.Cart, error)
	MarkExpired(ctx context.Context, id string) error
}

var ErrInvalidQuantity = errors.New("cantidad inválida")

type CartService struct {
	carts    CartRepository
	products ProductRepository
}

func NewCartService(carts CartRepository, products ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// InitCart implementa la secuencia de arranque: si el cliente trae un ID
// y el carrito no expiró, se adopta; si expiró se marca expirado y se
// descarta; en cualquier otro caso se crea uno nuevo vacío. El cliente
// guarda el ID que vuelve.
func (s *CartService) InitCart(ctx context.Context, existingID string) (*model.Cart, error) {
	if existingID != "" {
		cart, err := s.carts.FindByID(ctx, existingID)
		switch {
		case err == nil && cart.Status == model.CartStatusActive && !cartutil.HasExpired(cart.LastModified):
			return cart, nil
		case err == nil:
			if err := s.carts.MarkExpired(ctx, existingID); err != nil {
				log.Println("⚠️ Error marcando carrito expirado:", err)
			}
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	cart := &model.Cart{
		ID:           cartutil.GenerateCartID(),
		Items:        []model.CartItem{},
		Status:       model.CartStatusActive,
		LastModified: time.Now(),
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) GetCart(ctx context.Context, id string) (*model.Cart, error) {
	return s.carts.FindByID(ctx, id)
}

// AddItem agrega unidades de un producto. Si la línea ya existe y el
// agregado pasaría el tope de 10, no se modifica nada y vuelve un aviso
// para el usuario (no es un error).
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, quantity int) (*model.Cart, string, error) {
	if quantity < 1 {
		return nil, "", ErrInvalidQuantity
	}

	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, "", err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, "", err
	}

	found := false
	for i, item := range cart.Items {
		if item.ProductID == productID {
			if !cartutil.CanAddMoreItems(item.Quantity, quantity) {
				notice := fmt.Sprintf("No puedes agregar más de %d unidades del mismo producto", cartutil.MaxQuantityPerItem)
				return cart, notice, nil
			}
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}

	if !found {
		if quantity > cartutil.MaxQuantityPerItem {
			notice := fmt.Sprintf("No puedes agregar más de %d unidades del mismo producto", cartutil.MaxQuantityPerItem)
			return cart, notice, nil
		}
		cart.Items = append(cart.Items, cartutil.NewCartItem(product, quantity))
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, "", err
	}
	return cart, "", nil
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) (*model.Cart, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity fija la cantidad de una línea. Por encima de 10 vuelve
// un aviso sin tocar nada; por debajo de 1 es un error directo.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, productID string, quantity int) (*model.Cart, string, error) {
	if quantity < 1 {
		return nil, "", ErrInvalidQuantity
	}

	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, "", err
	}

	if quantity > cartutil.MaxQuantityPerItem {
		notice := fmt.Sprintf("No puedes agregar más de %d unidades", cartutil.MaxQuantityPerItem)
		return cart, notice, nil
	}

	found := false
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, "", repository.ErrNotFound
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, "", err
	}
	return cart, "", nil
}

func (s *CartService) ClearCart(ctx context.Context, cartID string) (*model.Cart, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.Items = []model.CartItem{}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
