package utils

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Store database (balances, purchases, catalog, audit)
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Game server characters database (characters, mail, items, accounts)
	CharDBUser     string `yaml:"CHARDB_USER"`
	CharDBName     string `yaml:"CHARDB_NAME"`
	CharDBPassword string `yaml:"CHARDB_PASSWORD"`
	CharDBPort     string `yaml:"CHARDB_PORT"`
	CharDBHost     string `yaml:"CHARDB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Game server remote console (SOAP)
	SoapURL            string `yaml:"SOAP_URL"`
	SoapUser           string `yaml:"SOAP_USER"`
	SoapPassword       string `yaml:"SOAP_PASSWORD"`
	SoapTimeoutSeconds int    `yaml:"SOAP_TIMEOUT_SECONDS"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	os.Setenv("JWT_SECRET", config.JWTSecret)
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "CHARDB_USER":
		return config.CharDBUser
	case "CHARDB_NAME":
		return config.CharDBName
	case "CHARDB_PASSWORD":
		return config.CharDBPassword
	case "CHARDB_PORT":
		return config.CharDBPort
	case "CHARDB_HOST":
		return config.CharDBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "SOAP_URL":
		return config.SoapURL
	case "SOAP_USER":
		return config.SoapUser
	case "SOAP_PASSWORD":
		return config.SoapPassword
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	default:
		return ""
	}
}

func GetSoapTimeoutSeconds() int {
	return config.SoapTimeoutSeconds
}
