// config.go
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI    string
	MongoDBName string
	RabbitURL   string
	Port        string

	// URL pública del sitio, usada para las back_urls de Mercado Pago
	BaseURL string

	AuthURL string

	MPAccessToken   string
	MPWebhookSecret string
	MPIntegratorID  string
	StoreName       string

	ResendAPIKey string
	FromEmail    string
}

func Load() *Config {
	// Solo cargar .env en desarrollo local
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Error cargando el archivo .env:", err)
		}
	}

	return &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "tienda_db"),
		RabbitURL:   getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		Port:        getEnv("PORT", "8080"),

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		AuthURL: getEnv("AUTH_SERVICE_URL", "http://host.docker.internal:3000"),

		MPAccessToken:   getEnv("MP_ACCESS_TOKEN", ""),
		MPWebhookSecret: getEnv("MP_WEBHOOK_SECRET", ""),
		MPIntegratorID:  getEnv("MP_INTEGRATOR_ID", ""),
		StoreName:       getEnv("STORE_NAME", "Tienda Online"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "onboarding@resend.dev"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
