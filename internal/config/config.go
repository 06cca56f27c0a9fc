package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	SourceDatabase = "database"
	SourceFixture  = "fixture"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Source       Source       `mapstructure:",squash"`
	Dashboard    Dashboard    `mapstructure:",squash"`
	DatasetAudit DatasetAudit `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"` // host:porta/banco[?parametros]
	User     string `mapstructure:"database_user"`
}

// Source define de onde vem a tabela de notificações
type Source struct {
	Type        string `mapstructure:"source_type"`
	Table       string `mapstructure:"source_table"`
	FixturePath string `mapstructure:"source_fixture_path"`
}

type Dashboard struct {
	TopN           int  `mapstructure:"dashboard_top_n"`
	WeeklyZeroFill bool `mapstructure:"dashboard_weekly_zero_fill"`
}

type DatasetAudit struct {
	CronSchedule string `mapstructure:"dataset_audit_cron"`
	Enabled      bool   `mapstructure:"dataset_audit_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", DriverPostgres)
	viper.SetDefault("DATABASE_URL", "localhost:5432/saude_es?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SOURCE_TYPE", SourceDatabase)
	viper.SetDefault("SOURCE_TABLE", "prototipo.casos_es")
	viper.SetDefault("SOURCE_FIXTURE_PATH", "data/casos_es.yaml")

	viper.SetDefault("DASHBOARD_TOP_N", 15)
	viper.SetDefault("DASHBOARD_WEEKLY_ZERO_FILL", false)

	viper.SetDefault("DATASET_AUDIT_CRON", "0 6 * * *") // Todos os dias às 6h da manhã
	viper.SetDefault("DATASET_AUDIT_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = BuildDSN(config.Database)

	return config, nil
}

// Validate rejeita combinações que impediriam o primeiro ciclo de renderização
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceDatabase:
		if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverMySQL {
			return fmt.Errorf("config: driver de banco não suportado: %q", c.Database.Driver)
		}
		if strings.TrimSpace(c.Source.Table) == "" {
			return fmt.Errorf("config: SOURCE_TABLE é obrigatório para a fonte %q", SourceDatabase)
		}
	case SourceFixture:
		if strings.TrimSpace(c.Source.FixturePath) == "" {
			return fmt.Errorf("config: SOURCE_FIXTURE_PATH é obrigatório para a fonte %q", SourceFixture)
		}
	default:
		return fmt.Errorf("config: tipo de fonte desconhecido: %q", c.Source.Type)
	}

	if c.Dashboard.TopN < 0 {
		return fmt.Errorf("config: DASHBOARD_TOP_N não pode ser negativo")
	}

	return nil
}

// BuildDSN monta a URL de conexão do Postgres. O MySQL monta o próprio DSN a partir dos mesmos campos.
func BuildDSN(db Database) string {
	if db.Driver != DriverPostgres {
		return ""
	}
	return fmt.Sprintf("%s://%s:%s@%s", db.Driver, db.User, db.Password, db.URL)
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
