package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/icodeforyou/elpris-go/logging"
	"github.com/icodeforyou/elpris-go/slice"
	"github.com/icodeforyou/elpris-go/types"
)

type AppConfigApi struct {
	Address string // Listen address, default: all interfaces
	Port    int16
}

func (a AppConfigApi) GetPort() int16 {
	if a.Port == 0 {
		return 8080
	}
	return a.Port
}

func (a AppConfigApi) Addr() string {
	return fmt.Sprintf("%s:%d", a.Address, a.GetPort())
}

type AppConfigDatabase struct {
	// Path to the SQLite price cache, caching is disabled when empty
	Path string
	// How many days cached prices are kept before they get purged
	DataRetentionDays *int `mapstructure:"data_retention_days"`
}

func (d AppConfigDatabase) Enabled() bool {
	return d.Path != ""
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 7
	}
	return *d.DataRetentionDays
}

type AppConfigEnergyPrice struct {
	Tax         float64  `mapstructure:"tax_including_vat"` // Energy tax in SEK/kWh including VAT (energiskatt inkl. moms)
	GridBenefit float64  `mapstructure:"grid_benefit"`      // Grid benefit in SEK/kWh (nätnytta)
	Area        string   `mapstructure:"area"`              // Default zone: "SE1", "SE2", "SE3", "SE4"
	Zones       []string `mapstructure:"zones"`             // Zones prefetched in serve mode, default: area
	RunAt       string   `mapstructure:"run_at"`            // Cron spec for the prefetch task
	// Timeout for a single provider request in seconds, default: 10
	Timeout           *int   `mapstructure:"timeout"`
	ElprisetJustNuURL string `mapstructure:"elprisetjustnu_url"`
	NordpoolURL       string `mapstructure:"nordpool_url"`
}

func (e AppConfigEnergyPrice) GetArea() types.Zone {
	z, err := types.ParseZone(e.Area)
	if err != nil {
		return types.ZoneSE3
	}
	return z
}

func (e AppConfigEnergyPrice) GetZones() ([]types.Zone, error) {
	if len(e.Zones) == 0 {
		return []types.Zone{e.GetArea()}, nil
	}
	zones := make([]types.Zone, 0, len(e.Zones))
	for _, s := range e.Zones {
		z, err := types.ParseZone(s)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func (e AppConfigEnergyPrice) GetRunAt() string {
	if e.RunAt == "" {
		return "15 13 * * *" // Day-ahead prices are normally out shortly after 13:00
	}
	return e.RunAt
}

func (e AppConfigEnergyPrice) GetTimeout() time.Duration {
	if e.Timeout == nil {
		return 10 * time.Second
	}
	return time.Duration(*e.Timeout) * time.Second
}

type AppConfigCharging struct {
	// Window lengths in hours offered by --charging, default: 2, 4, 8
	Windows []int   `mapstructure:"windows"`
	PowerKW float64 `mapstructure:"power_kw"` // Charger power in kW, enables cost estimates when > 0
}

func (c AppConfigCharging) GetWindows() []int {
	if len(c.Windows) == 0 {
		return []int{2, 4, 8}
	}
	return c.Windows
}

type AppConfigDisplay struct {
	// Price unit: "sek" (SEK/kWh, 4 decimals) or "ore" (öre/kWh, 2 decimals), default: "ore"
	Unit *string `mapstructure:"unit"`
	// BCP 47 language tag for number formatting, default: "sv"
	Language *string `mapstructure:"language"`
	// Height in rows of the --chart graph, default: 10
	ChartHeight *int `mapstructure:"chart_height"`
}

func (d AppConfigDisplay) GetUnit() string {
	if d.Unit == nil {
		return "ore"
	}
	return strings.ToLower(*d.Unit)
}

func (d AppConfigDisplay) GetLanguage() string {
	if d.Language == nil {
		return "sv"
	}
	return *d.Language
}

func (d AppConfigDisplay) GetChartHeight() int {
	if d.ChartHeight == nil {
		return 10
	}
	return *d.ChartHeight
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "WARN" for the CLI
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.LogAttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel(def slog.Level) slog.Level {
	return logging.LevelFromStringOr(l.ConsoleLevel, def)
}

type AppConfigMqtt struct {
	Host        string // Publishing is disabled when empty
	Port        int16
	Username    string
	Password    string
	TopicPrefix string `mapstructure:"topic_prefix"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

func (m AppConfigMqtt) GetPort() int16 {
	if m.Port == 0 {
		return 1883
	}
	return m.Port
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	if m.TopicPrefix == "" {
		return "elpris"
	}
	return strings.TrimSuffix(m.TopicPrefix, "/")
}

type AppConfig struct {
	Api         AppConfigApi
	Database    AppConfigDatabase
	EnergyPrice AppConfigEnergyPrice `mapstructure:"energy_price"`
	Charging    AppConfigCharging    `mapstructure:"charging"`
	Display     AppConfigDisplay     `mapstructure:"display"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
	Mqtt        AppConfigMqtt        `mapstructure:"mqtt"`
}

// Validate checks values that can't be defaulted.
func (c *AppConfig) Validate() error {
	if c.EnergyPrice.Area != "" {
		if _, err := types.ParseZone(c.EnergyPrice.Area); err != nil {
			return fmt.Errorf("energy_price.area: %w", err)
		}
	}
	if _, err := c.EnergyPrice.GetZones(); err != nil {
		return fmt.Errorf("energy_price.zones: %w", err)
	}
	if !slice.All(c.Charging.GetWindows(), func(n int) bool { return n > 0 }) {
		return fmt.Errorf("charging.windows: window lengths must be positive, got %v", c.Charging.Windows)
	}
	if u := c.Display.GetUnit(); u != "sek" && u != "ore" {
		return fmt.Errorf("display.unit: expected \"sek\" or \"ore\", got %q", u)
	}
	return nil
}

// Load reads the config file at path, or config/config.yaml or config.yaml
// when path is empty. A missing default file is fine, everything can be set
// from the environment, e.g. ELPRIS_ENERGY_PRICE_AREA=SE4. A .env file in
// the working directory is loaded first, a missing one is skipped.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to read .env file: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("elpris")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &c, nil
}

// AutomaticEnv only applies to keys viper already knows about, so without a
// config file the keys have to be bound explicitly.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"api.address", "api.port",
		"database.path", "database.data_retention_days",
		"energy_price.tax_including_vat", "energy_price.grid_benefit", "energy_price.area",
		"energy_price.zones", "energy_price.run_at", "energy_price.timeout",
		"energy_price.elprisetjustnu_url", "energy_price.nordpool_url",
		"charging.windows", "charging.power_kw",
		"display.unit", "display.language", "display.chart_height",
		"logging.db_level", "logging.db_attrs_format", "logging.db_max_entries", "logging.console_level",
		"mqtt.host", "mqtt.port", "mqtt.username", "mqtt.password", "mqtt.topic_prefix",
	} {
		_ = v.BindEnv(key)
	}
}
