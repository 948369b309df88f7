// Load envs from .env
// Load YAML district config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// PortalRef points at one career portal of a district. Districts of type
// "Multiple" list several.
type PortalRef struct {
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
}

type District struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	URL  string `yaml:"url"`
	//PAEducator lists every district on one site, so we search by this term
	PAEducatorFilter string      `yaml:"paeducator_filter"`
	Portals          []PortalRef `yaml:"portals"`
}

type Config struct {
	Schools []District `yaml:"schools"`
	//Paths
	CachePath string `yaml:"cache_path"`
	//SMTP endpoint for the email sender
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`

	//Secrets and deploy settings, env only
	DatabaseURL         string
	EmailFrom           string
	EmailTo             string
	EmailPassword       string
	NtfyTopic           string
	TelegramToken       string
	TelegramChatID      int64
	ScrapeIntervalHours int
	Port                string
}

func Load(path string) *Config {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Could not read %s: %v", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", path, err)
	}

	applyEnv(cfg)
	return cfg
}

func parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	//Set default values if not set
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "smtp.gmail.com"
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 465
	}

	//Validate required fields
	if len(cfg.Schools) == 0 {
		return nil, fmt.Errorf("no schools configured")
	}
	for i, school := range cfg.Schools {
		if school.Name == "" {
			return nil, fmt.Errorf("school %d has no name", i)
		}
		if school.Type == "" {
			return nil, fmt.Errorf("school %q has no portal type", school.Name)
		}
		if school.Type == "Multiple" {
			if len(school.Portals) == 0 {
				return nil, fmt.Errorf("school %q is Multiple but lists no portals", school.Name)
			}
			continue
		}
		if school.URL == "" {
			return nil, fmt.Errorf("school %q has no url", school.Name)
		}
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.EmailFrom = os.Getenv("EMAIL_FROM")
	cfg.EmailTo = os.Getenv("EMAIL_TO")
	cfg.EmailPassword = os.Getenv("EMAIL_PASSWORD")
	cfg.NtfyTopic = os.Getenv("NTFY_TOPIC")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	if cfg.EmailTo == "" {
		cfg.EmailTo = cfg.EmailFrom
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	cfg.ScrapeIntervalHours = 24
	if s := os.Getenv("SCRAPE_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			log.Fatalf("SCRAPE_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		cfg.ScrapeIntervalHours = v
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
}

// FilterDistricts keeps only schools whose name contains the given
// substring, case-insensitively. Returns false when nothing matched.
func (c *Config) FilterDistricts(name string) bool {
	if name == "" {
		return true
	}
	var matching []District
	for _, school := range c.Schools {
		if containsFold(school.Name, name) {
			matching = append(matching, school)
		}
	}
	if len(matching) == 0 {
		return false
	}
	c.Schools = matching
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
