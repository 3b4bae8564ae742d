package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signManifest(secret, dataID, requestID, ts string) string {
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", dataID, requestID, ts)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(manifest))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := NewClient("token", "", "secreto-webhook")

	v1 := signManifest("secreto-webhook", "12345", "req-abc", "1700000000")
	signature := fmt.Sprintf("ts=1700000000,v1=%s", v1)

	assert.True(t, client.VerifyWebhookSignature(signature, "12345", "req-abc"))

	// Espacios después de la coma, como manda el header real
	assert.True(t, client.VerifyWebhookSignature("ts=1700000000, v1="+v1, "12345", "req-abc"))

	// Firma de otro secret
	bad := signManifest("otro-secret", "12345", "req-abc", "1700000000")
	assert.False(t, client.VerifyWebhookSignature("ts=1700000000,v1="+bad, "12345", "req-abc"))

	// data.id manipulado
	assert.False(t, client.VerifyWebhookSignature(signature, "99999", "req-abc"))

	// Header incompleto
	assert.False(t, client.VerifyWebhookSignature("v1="+v1, "12345", "req-abc"))
	assert.False(t, client.VerifyWebhookSignature("", "12345", "req-abc"))
}

func TestVerifyWebhookSignatureSinSecret(t *testing.T) {
	client := NewClient("token", "", "")
	assert.True(t, client.VerifyWebhookSignature("cualquier-cosa", "1", "2"))
}
