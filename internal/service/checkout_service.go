package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"tienda-backend/internal/cache"
	"tienda-backend/internal/cartutil"
	"tienda-backend/internal/dto"
	"tienda-backend/internal/mercadopago"
	"tienda-backend/internal/model"
	"tienda-backend/internal/repository"
)

type CheckoutStep string

const (
	StepCustomerInfo CheckoutStep = "customer-info"
	StepPayment      CheckoutStep = "payment"
	StepConfirmation CheckoutStep = "confirmation"
)

// StepError queda asociado al paso que lo produjo: volver a un paso
// anterior solo borra la relevancia de ese paso.
type StepError struct {
	Step    CheckoutStep `json:"step"`
	Message string       `json:"message"`
}

// CheckoutSession es el estado del flujo de compra de un carrito.
type CheckoutSession struct {
	CartID       string       `json:"cartId"`
	Step         CheckoutStep `json:"step"`
	OrderID      string       `json:"orderId,omitempty"`
	CustomerID   string       `json:"customerId,omitempty"`
	PreferenceID string       `json:"preferenceId,omitempty"`
	InitPoint    string       `json:"initPoint,omitempty"`
	Err          *StepError   `json:"error,omitempty"`
}

// PaymentGateway crea la preferencia de cobro en Mercado Pago.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, pref *mercadopago.Preference) (*mercadopago.PreferenceResponse, error)
}

// PaymentRecorder aplica el resultado de un pago sobre la orden.
// Lo implementa OrderService.
type PaymentRecorder interface {
	UpdateOrderPayment(ctx context.Context, orderID, paymentID, paymentStatus string) error
}

var (
	ErrEmptyCart     = errors.New("el carrito está vacío")
	ErrCheckoutState = errors.New("el checkout no está en el paso esperado")
)

var (
	dniRe   = regexp.MustCompile(`^\d{7,8}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 \-]{9,}$`)
	zipRe   = regexp.MustCompile(`^\d{4}$`)
)

const sessionTTL = time.Hour

type CheckoutService struct {
	carts     CartRepository
	customers CustomerRepository
	orders    OrderRepository
	payments  PaymentRecorder
	gateway   PaymentGateway
	sessions  *cache.Cache

	baseURL   string
	storeName string
}

func NewCheckoutService(
	carts CartRepository,
	customers CustomerRepository,
	orders OrderRepository,
	payments PaymentRecorder,
	gateway PaymentGateway,
	sessions *cache.Cache,
	baseURL, storeName string,
) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		customers: customers,
		orders:    orders,
		payments:  payments,
		gateway:   gateway,
		sessions:  sessions,
		baseURL:   baseURL,
		storeName: storeName,
	}
}

func sessionKey(cartID string) string {
	return "checkout:" + cartID
}

// Session devuelve la sesión del carrito, creándola en customer-info
// si todavía no existe.
func (s *CheckoutService) Session(cartID string) *CheckoutSession {
	if v, ok := s.sessions.Get(sessionKey(cartID)); ok {
		return v.(*CheckoutSession)
	}
	session := &CheckoutSession{CartID: cartID, Step: StepCustomerInfo}
	s.sessions.Set(sessionKey(cartID), session, sessionTTL)
	return session
}

func (s *CheckoutService) saveSession(session *CheckoutSession) {
	s.sessions.Set(sessionKey(session.CartID), session, sessionTTL)
}

// ValidateCustomerForm devuelve un mapa de errores por campo; vacío
// significa que el formulario es válido.
func ValidateCustomerForm(form dto.CustomerForm) map[string]string {
	errs := map[string]string{}

	required := map[string]string{
		"firstName":    form.FirstName,
		"lastName":     form.LastName,
		"dni":          form.DNI,
		"email":        form.Email,
		"phone":        form.Phone,
		"street":       form.Street,
		"streetNumber": form.StreetNumber,
		"zipCode":      form.ZipCode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = "Este campo es obligatorio"
		}
	}

	if form.DNI != "" && !dniRe.MatchString(form.DNI) {
		errs["dni"] = "El DNI debe tener 7 u 8 dígitos"
	}
	if form.Email != "" && !emailRe.MatchString(form.Email) {
		errs["email"] = "Email inválido"
	}
	if form.Phone != "" && !phoneRe.MatchString(form.Phone) {
		errs["phone"] = "Teléfono inválido"
	}
	if form.ZipCode != "" && !zipRe.MatchString(form.ZipCode) {
		errs["zipCode"] = "El código postal debe tener 4 dígitos"
	}

	return errs
}

// SubmitCustomerInfo es la transición customer-info → payment:
// valida el formulario, upsertea el cliente por email, crea la orden
// como snapshot del carrito, pide la preferencia al gateway y deja la
// sesión parada en payment. Si la validación falla no hay ningún efecto.
func (s *CheckoutService) SubmitCustomerInfo(ctx context.Context, cartID string, form dto.CustomerForm) (*CheckoutSession, map[string]string, error) {
	session := s.Session(cartID)

	if errs := ValidateCustomerForm(form); len(errs) > 0 {
		return session, errs, nil
	}

	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		return session, nil, s.fail(session, StepCustomerInfo, "No se pudo cargar el carrito", err)
	}
	if len(cart.Items) == 0 {
		return session, nil, s.fail(session, StepCustomerInfo, "El carrito está vacío", ErrEmptyCart)
	}

	customerID, err := s.upsertCustomer(ctx, form)
	if err != nil {
		return session, nil, s.fail(session, StepCustomerInfo, "Error al procesar los datos del cliente", err)
	}

	orderID, err := s.createOrder(ctx, customerID, cart)
	if err != nil {
		return session, nil, s.fail(session, StepCustomerInfo, "Error al registrar la orden", err)
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return session, nil, s.fail(session, StepCustomerInfo, "Error al procesar los datos del cliente", err)
	}

	pref, err := s.gateway.CreatePreference(ctx, s.buildPreference(orderID, cart.Items, customer))
	if err != nil {
		return session, nil, s.fail(session, StepCustomerInfo, "Error al iniciar el pago", err)
	}

	session.Step = StepPayment
	session.OrderID = orderID
	session.CustomerID = customerID
	session.PreferenceID = pref.ID
	session.InitPoint = pref.InitPoint
	session.Err = nil
	s.saveSession(session)

	return session, nil, nil
}

// HandlePaymentResult es la transición payment → confirmation.
// approved confirma y vacía el carrito; pending y rejected dejan la
// sesión en payment con su aviso (el comprador puede reintentar).
func (s *CheckoutService) HandlePaymentResult(ctx context.Context, cartID, paymentID, paymentStatus string) (*CheckoutSession, error) {
	session := s.Session(cartID)
	if session.Step != StepPayment || session.OrderID == "" {
		return session, ErrCheckoutState
	}

	if err := s.payments.UpdateOrderPayment(ctx, session.OrderID, paymentID, paymentStatus); err != nil {
		return session, s.fail(session, StepPayment, "Error al registrar el resultado del pago", err)
	}

	switch paymentStatus {
	case model.PaymentApproved:
		if _, err := s.clearCart(ctx, cartID); err != nil {
			return session, s.fail(session, StepPayment, "El pago se registró pero no se pudo vaciar el carrito", err)
		}
		session.Step = StepConfirmation
		session.Err = nil

	case model.PaymentPending:
		session.Err = &StepError{
			Step:    StepPayment,
			Message: "El pago quedó pendiente. Podés completarlo desde Mercado Pago.",
		}

	case model.PaymentRejected:
		session.Err = &StepError{
			Step:    StepPayment,
			Message: "El pago fue rechazado. Probá con otro medio de pago.",
		}
	}

	s.saveSession(session)
	return session, nil
}

// Reset vuelve la sesión a customer-info y borra error, orden, cliente
// y preferencia. Se usa cuando el comprador abandona el pago.
func (s *CheckoutService) Reset(cartID string) *CheckoutSession {
	session := &CheckoutSession{CartID: cartID, Step: StepCustomerInfo}
	s.saveSession(session)
	return session
}

func (s *CheckoutService) fail(session *CheckoutSession, step CheckoutStep, message string, err error) error {
	session.Err = &StepError{Step: step, Message: message}
	s.saveSession(session)
	return err
}

// upsertCustomer guarda al cliente usando el email como clave: si ya
// existe se actualizan sus datos, si no se crea con ID nuevo.
func (s *CheckoutService) upsertCustomer(ctx context.Context, form dto.CustomerForm) (string, error) {
	existing, err := s.customers.FindByEmail(ctx, form.Email)
	if err == nil {
		update := bson.M{
			"first_name":    form.FirstName,
			"last_name":     form.LastName,
			"dni":           form.DNI,
			"phone":         form.Phone,
			"street":        form.Street,
			"street_number": form.StreetNumber,
			"zip_code":      form.ZipCode,
		}
		if err := s.customers.Update(ctx, existing.ID, update); err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	customer := &model.Customer{
		ID:           uuid.NewString(),
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		DNI:          form.DNI,
		Email:        form.Email,
		Phone:        form.Phone,
		Street:       form.Street,
		StreetNumber: form.StreetNumber,
		ZipCode:      form.ZipCode,
		OrderIDs:     []string{},
	}
	if err := s.customers.Insert(ctx, customer); err != nil {
		return "", err
	}
	return customer.ID, nil
}

// createOrder congela el carrito en una orden: copia las líneas con su
// precio snapshot y calcula el total con esos mismos items. El vínculo
// con el cliente se mantiene en los dos sentidos; si falla el append en
// el cliente, la orden recién creada se borra como compensación.
func (s *CheckoutService) createOrder(ctx context.Context, customerID string, cart *model.Cart) (string, error) {
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, model.OrderItem{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}

	order := &model.Order{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		Items:         items,
		TotalAmount:   cartutil.TotalAmount(cart.Items),
		Status:        model.StatusRegistered,
		PaymentStatus: model.PaymentPending,
		StatusHistory: []model.StatusRecord{
			{
				Status:    model.StatusRegistered,
				Timestamp: time.Now().UTC(),
				Note:      "Orden registrada",
			},
		},
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return "", err
	}

	if err := s.customers.AddOrder(ctx, customerID, order.ID); err != nil {
		if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
			return "", fmt.Errorf("falló el vínculo con el cliente (%v) y la compensación (%v)", err, delErr)
		}
		return "", err
	}

	return order.ID, nil
}

func (s *CheckoutService) clearCart(ctx context.Context, cartID string) (*model.Cart, error) {
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

func (s *CheckoutService) buildPreference(orderID string, items []model.CartItem, customer *model.Customer) *mercadopago.Preference {
	prefItems := make([]mercadopago.PreferenceItem, 0, len(items))
	for _, item := range items {
		prefItems = append(prefItems, mercadopago.PreferenceItem{
			ID:          item.ProductID,
			Title:       item.Product.Name,
			Description: item.Product.Description,
			PictureURL:  item.Product.Image,
			CategoryID:  "others",
			Quantity:    item.Quantity,
			CurrencyID:  "ARS",
			UnitPrice:   item.PriceAtPurchase,
		})
	}

	return &mercadopago.Preference{
		Items: prefItems,
		Payer: mercadopago.Payer{
			Name:    customer.FirstName,
			Surname: customer.LastName,
			Email:   customer.Email,
			Phone:   formatPhone(customer.Phone),
			Identification: mercadopago.Identification{
				Type:   "DNI",
				Number: customer.DNI,
			},
			Address: mercadopago.Address{
				StreetName:   customer.Street,
				StreetNumber: customer.StreetNumber,
				ZipCode:      customer.ZipCode,
			},
		},
		BackURLs: mercadopago.BackURLs{
			Success: s.baseURL + "/checkout/success",
			Failure: s.baseURL + "/checkout/failure",
			Pending: s.baseURL + "/checkout/pending",
		},
		NotificationURL:     s.baseURL + "/api/webhook/mercadopago",
		StatementDescriptor: s.storeName,
		ExternalReference:   orderID,
		Expires:             true,
		AutoReturn:          "approved",
	}
}

var nonDigits = regexp.MustCompile(`\D`)

// formatPhone separa código de área y número asumiendo que los primeros
// 2 o 3 dígitos son el área (2 para números de 10 dígitos).
func formatPhone(phone string) mercadopago.Phone {
	cleaned := nonDigits.ReplaceAllString(phone, "")

	areaLen := 3
	if len(cleaned) == 10 {
		areaLen = 2
	}
	if len(cleaned) < areaLen {
		return mercadopago.Phone{Number: cleaned}
	}

	return mercadopago.Phone{
		AreaCode: cleaned[:areaLen],
		Number:   cleaned[areaLen:],
	}
}
