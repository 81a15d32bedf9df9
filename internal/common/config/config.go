// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Sink         SinkConfig              `mapstructure:"sink"`
	Policy       PolicyConfig            `mapstructure:"policy"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Server       ServerConfig            `mapstructure:"server"`
	Logging      LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name         string `mapstructure:"name"`
	Version      string `mapstructure:"version"`
	Environment  string `mapstructure:"environment"`
	RegistryPath string `mapstructure:"registry_path"` // activity registry checked at startup
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// SinkConfig points at the downstream lead-capture service.
type SinkConfig struct {
	Provider string `mapstructure:"provider"` // "http" or "zoho"
	BaseURL  string `mapstructure:"base_url"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
	Source   string `mapstructure:"source"`
}

// PolicyConfig holds the fixed business and physical constants. Zero values
// mean "use the built-in default" for each field.
type PolicyConfig struct {
	Consumption ConsumptionPolicyConfig `mapstructure:"consumption"`
	Savings     SavingsPolicyConfig     `mapstructure:"savings"`
	Scoring     ScoringPolicyConfig     `mapstructure:"scoring"`
}

type ConsumptionPolicyConfig struct {
	NonInverterKW float64 `mapstructure:"non_inverter_kw"`
	OldInverterKW float64 `mapstructure:"old_inverter_kw"`
	InverterKW    float64 `mapstructure:"inverter_kw"`
	DaysPerMonth  int     `mapstructure:"days_per_month"`
}

type SavingsPolicyConfig struct {
	EmissionFactorKgPerKwh float64 `mapstructure:"emission_factor_kg_per_kwh"`
}

type BandConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Points    int     `mapstructure:"points"`
}

type ScoringPolicyConfig struct {
	OfficeSizeBands      []BandConfig `mapstructure:"office_size_bands"`
	OfficeSizeFloor      *int         `mapstructure:"office_size_floor"`
	ACUnitBands          []BandConfig `mapstructure:"ac_unit_bands"`
	ACUnitFloor          *int         `mapstructure:"ac_unit_floor"`
	BillBands            []BandConfig `mapstructure:"bill_bands"`
	BillFloor            *int         `mapstructure:"bill_floor"`
	PersonalEmailMarkers []string     `mapstructure:"personal_email_markers"`
	PersonalEmailPoints  *int         `mapstructure:"personal_email_points"`
	CorporateEmailPoints *int         `mapstructure:"corporate_email_points"`
	HighThreshold        int          `mapstructure:"high_threshold"`
	MediumThreshold      int          `mapstructure:"medium_threshold"`
	MaxScore             int          `mapstructure:"max_score"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// IntegrationConfig holds settings for the CRM sink and sales alerts.
type IntegrationConfig struct {
	Zoho struct {
		BaseURL   string `mapstructure:"base_url"`
		APIKey    string `mapstructure:"api_key"`
		AuthToken string `mapstructure:"oauth_token"`
	} `mapstructure:"zoho"`

	AWS struct {
		Region string `mapstructure:"region"`
		SNS    struct {
			Enabled       bool   `mapstructure:"enabled"`
			SalesTopicARN string `mapstructure:"sales_topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// ServerConfig is the health/metrics listener, and the stub sink listener.
type ServerConfig struct {
	Address     string `mapstructure:"address"`
	StubAddress string `mapstructure:"stub_address"`
	StubTTL     int    `mapstructure:"stub_ttl"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
