package config

import (
	"log"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	serviceOnce   sync.Once
	serviceConfig *ServiceConfig
)

// ServiceConfig holds the tunables of the extraction service. Values come
// from an optional YAML file (EXTRACTOR_CONFIG, default config.yaml);
// anything unset falls back to the defaults below.
type ServiceConfig struct {
	DefaultEncoding string   `yaml:"defaultEncoding"`
	StorageBackend  string   `yaml:"storageBackend"` // "minio" or "s3"
	MaxFileSize     int64    `yaml:"maxFileSize"`
	AllowedTypes    []string `yaml:"allowedTypes"`
	TesseractLang   string   `yaml:"tesseractLang"`
}

func defaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		DefaultEncoding: "utf-8",
		StorageBackend:  "minio",
		MaxFileSize:     50 * 1024 * 1024, // 50MB
		AllowedTypes: []string{
			".txt", ".md", ".log", ".csv", ".json", ".yaml", ".yml", ".xml",
			".pdf", ".docx", ".pptx", ".doc", ".rtf",
			".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp",
			".html", ".htm",
		},
		TesseractLang: "eng",
	}
}

func GetServiceConfig() *ServiceConfig {
	serviceOnce.Do(func() {
		loadEnv()

		serviceConfig = defaultServiceConfig()

		path := os.Getenv("EXTRACTOR_CONFIG")
		if path == "" {
			path = "config.yaml"
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Warning: can't read %s: %v, using defaults", path, err)
			}
			return
		}

		if err := yaml.Unmarshal(data, serviceConfig); err != nil {
			log.Printf("Warning: can't parse %s: %v, using defaults", path, err)
			serviceConfig = defaultServiceConfig()
		}
	})
	return serviceConfig
}
