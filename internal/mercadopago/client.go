// Package mercadopago implementa el cliente REST del gateway de pagos:
// creación de preferencias, consulta de pagos y verificación de firma
// de webhooks.
package mercadopago

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const baseURL = "https://api.mercadopago.com"

type Client struct {
	accessToken   string
	integratorID  string
	webhookSecret string
	client        *http.Client
}

func NewClient(accessToken, integratorID, webhookSecret string) *Client {
	return &Client{
		accessToken:   accessToken,
		integratorID:  integratorID,
		webhookSecret: webhookSecret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type PreferenceItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PictureURL  string  `json:"picture_url,omitempty"`
	CategoryID  string  `json:"category_id,omitempty"`
	Quantity    int     `json:"quantity"`
	CurrencyID  string  `json:"currency_id"`
	UnitPrice   float64 `json:"unit_price"`
}

type Payer struct {
	Name           string         `json:"name"`
	Surname        string         `json:"surname"`
	Email          string         `json:"email"`
	Phone          Phone          `json:"phone"`
	Identification Identification `json:"identification"`
	Address        Address        `json:"address"`
}

type Phone struct {
	AreaCode string `json:"area_code"`
	Number   string `json:"number"`
}

type Identification struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type Address struct {
	StreetName   string `json:"street_name"`
	StreetNumber string `json:"street_number"`
	ZipCode      string `json:"zip_code"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// Preference describe el cobro prospectivo que se le presenta al
// comprador. external_reference lleva el ID de la orden.
type Preference struct {
	Items               []PreferenceItem `json:"items"`
	Payer               Payer            `json:"payer"`
	BackURLs            BackURLs         `json:"back_urls"`
	NotificationURL     string           `json:"notification_url"`
	StatementDescriptor string           `json:"statement_descriptor"`
	ExternalReference   string           `json:"external_reference"`
	Expires             bool             `json:"expires"`
	AutoReturn          string           `json:"auto_return"`
}

type PreferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type Payment struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"` // approved | pending | rejected | ...
	ExternalReference string `json:"external_reference"`
}

// CreatePreference registra la preferencia en el gateway.
func (c *Client) CreatePreference(ctx context.Context, pref *Preference) (*PreferenceResponse, error) {
	body, err := json.Marshal(pref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	if c.integratorID != "" {
		req.Header.Set("X-Integrator-Id", c.integratorID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error llamando a Mercado Pago: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mercadopago: la creación de preferencia devolvió %d", resp.StatusCode)
	}

	var out PreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPayment consulta un pago por ID. Trae el estado y la referencia
// externa (el ID de nuestra orden).
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1/payments/%s", baseURL, paymentID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if c.integratorID != "" {
		req.Header.Set("X-Integrator-Id", c.integratorID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error consultando el pago: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mercadopago: la consulta del pago devolvió %d", resp.StatusCode)
	}

	var out Payment
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyWebhookSignature valida el header x-signature (ts=...,v1=...)
// contra el manifest que documenta Mercado Pago. Sin secret configurado
// no hay forma de validar y se acepta la notificación.
func (c *Client) VerifyWebhookSignature(signature, dataID, requestID string) bool {
	if c.webhookSecret == "" {
		return true
	}

	var ts, v1 string
	for _, part := range strings.Split(signature, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			ts = kv[1]
		case "v1":
			v1 = kv[1]
		}
	}
	if ts == "" || v1 == "" {
		return false
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(manifest))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(v1))
}
