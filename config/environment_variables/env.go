package environment_variables

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

type EnvironmentVariable struct {
	SERVER_PORT             int
	DB_POSTGRESQL_WRITE_DSN string
	DB_POSTGRESQL_READ1_DSN string
	CACHE_TYPE              string
	CACHE_URL               string
	CACHE_PASSWORD          string
	CACHE_DB                string
	JWT_SECRET              []byte
	APIKEY_SECRET           string
	ALLOWED_CORS_HOSTS      []string
	SMTP_HOST               string
	SMTP_PORT               string
	SMTP_USERNAME           string
	SMTP_PASSWORD           string
	SMTP_FROM               string
	PORTAL_BASE_URL         string
	SUPERADMIN_USERNAME     string
	SUPERADMIN_EMAIL        string
	SUPERADMIN_PASSWORD     string
}

func (ev *EnvironmentVariable) LoadFromEnv() {
	v := reflect.ValueOf(ev).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		envKey := field.Name
		envValue := os.Getenv(envKey)
		if envValue == "" {
			fmt.Printf("Missing SYSENV: %s\n", envKey)
			continue
		}
		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(envValue)
		case int:
			if n, err := strconv.Atoi(envValue); err == nil {
				v.Field(i).SetInt(int64(n))
			}
		case []byte:
			v.Field(i).SetBytes([]byte(envValue))
		case []string:
			parts := strings.Split(envValue, ",")
			for j := range parts {
				parts[j] = strings.TrimSpace(parts[j])
			}
			v.Field(i).Set(reflect.ValueOf(parts))
		}
	}
}

// Singleton
var EnvironmentVariables = EnvironmentVariable{
	SERVER_PORT: 8080,
}
