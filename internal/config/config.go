package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/Beigelman/house-crawler/internal/models"
)

// Config holds the process settings read from the environment.
type Config struct {
	// Request identity sent on every fetch.
	UserAgent      string        `envconfig:"USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"`
	AcceptLanguage string        `envconfig:"ACCEPT_LANGUAGE" default:"pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	// ItemDelay is the courtesy pause after each detail page.
	ItemDelay     time.Duration `envconfig:"ITEM_DELAY" default:"1200ms"`
	HostRPS       float64       `envconfig:"HOST_RPS" default:"0"`
	RespectRobots bool          `envconfig:"RESPECT_ROBOTS" default:"false"`

	DFImoveisListURL string `envconfig:"DFIMOVEIS_LIST_URL" default:"https://www.dfimoveis.com.br/venda/df/brasilia/asa-norte,asa-sul/imoveis/3,4-quartos?suites=1&vagasdegaragem=1&valorfinal=1200000&areainicial=95"`
	WimoveisListURL  string `envconfig:"WIMOVEIS_LIST_URL" default:"https://www.wimoveis.com.br/venda/apartamentos/brasil/desde-3-ate-4-quartos/areac-elevador?areaUnit=1&bathroom=2&coveredArea=95,&loc=Z:42705,42704&price=,1200000"`

	// SearchFile points to a YAML file with search parameters; when set the
	// listing URLs are built from it.
	SearchFile string `envconfig:"SEARCH_FILE"`

	OutputFile  string `envconfig:"OUTPUT_FILE" default:"imoveis.json"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	Search *models.SearchParams `ignored:"true"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Missing .env is normal outside development.
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("Warning: .env file found but could not be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.SearchFile != "" {
		params, err := LoadSearchParams(cfg.SearchFile)
		if err != nil {
			return nil, err
		}
		cfg.Search = params
	}

	if err := validateListURL("DFIMOVEIS_LIST_URL", cfg.DFImoveisListURL); err != nil {
		return nil, err
	}
	if err := validateListURL("WIMOVEIS_LIST_URL", cfg.WimoveisListURL); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadSearchParams decodes a YAML search file.
func LoadSearchParams(path string) (*models.SearchParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read search file: %w", err)
	}
	var params models.SearchParams
	if err := yaml.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("failed to parse search file %s: %w", path, err)
	}
	if len(params.NumberOfRooms) == 0 {
		return nil, fmt.Errorf("search file %s: number_of_rooms is required", path)
	}
	return &params, nil
}

func validateListURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: %q is not an absolute http(s) URL", name, raw)
	}
	return nil
}
