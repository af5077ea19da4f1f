// Package config loads application configuration and installs the global
// logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Overlay OverlayConfig `yaml:"overlay" mapstructure:"overlay"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the input layers and dictionaries.
type DataConfig struct {
	Dir                   string             `yaml:"dir" mapstructure:"dir"`
	InventoryShapefile    string             `yaml:"inventory_shapefile" mapstructure:"inventory_shapefile"`
	InterventionShapefile string             `yaml:"intervention_shapefile" mapstructure:"intervention_shapefile"`
	ShadeToleranceFile    string             `yaml:"shade_tolerance_file" mapstructure:"shade_tolerance_file"`
	CutCategoriesFile     string             `yaml:"cut_categories_file" mapstructure:"cut_categories_file"`
	InventoryURL          string             `yaml:"inventory_url" mapstructure:"inventory_url"`
	InterventionURL       string             `yaml:"intervention_url" mapstructure:"intervention_url"`
	InventoryFields       InventoryFields    `yaml:"inventory_fields" mapstructure:"inventory_fields"`
	InterventionFields    InterventionFields `yaml:"intervention_fields" mapstructure:"intervention_fields"`
}

// InventoryFields names the inventory layer attributes.
type InventoryFields struct {
	AgeClass     string `yaml:"age_class" mapstructure:"age_class"`
	SpeciesGroup string `yaml:"species_group" mapstructure:"species_group"`
	Terrain      string `yaml:"terrain" mapstructure:"terrain"`
}

// InterventionFields names the intervention layer attributes.
type InterventionFields struct {
	FiscalYear      string `yaml:"fiscal_year" mapstructure:"fiscal_year"`
	Origin          string `yaml:"origin" mapstructure:"origin"`
	OriginYear      string `yaml:"origin_year" mapstructure:"origin_year"`
	Disturbance     string `yaml:"disturbance" mapstructure:"disturbance"`
	DisturbanceYear string `yaml:"disturbance_year" mapstructure:"disturbance_year"`
	Reforest1       string `yaml:"reforest1" mapstructure:"reforest1"`
	Reforest2       string `yaml:"reforest2" mapstructure:"reforest2"`
	Reforest3       string `yaml:"reforest3" mapstructure:"reforest3"`
}

// OverlayConfig configures the overlay and checkpoint behavior.
type OverlayConfig struct {
	CheckpointPath string  `yaml:"checkpoint_path" mapstructure:"checkpoint_path"`
	BufferSize     int     `yaml:"buffer_size" mapstructure:"buffer_size"`
	MinArea        float64 `yaml:"min_area" mapstructure:"min_area"`
}

// OutputConfig configures the matrix exports.
type OutputConfig struct {
	MatrixCSV        string   `yaml:"matrix_csv" mapstructure:"matrix_csv"`
	ProbabilityCSV   string   `yaml:"probability_csv" mapstructure:"probability_csv"`
	ExcludedCutTypes []string `yaml:"excluded_cut_types" mapstructure:"excluded_cut_types"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FORESTCUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", "InputData")
	v.SetDefault("data.inventory_shapefile", "InputData/CARTE_ECO_ORI_PROV.shp")
	v.SetDefault("data.intervention_shapefile", "InputData/INTERV_FORES_PROV.shp")
	v.SetDefault("data.shade_tolerance_file", "InputData/ShadeToleranceSpeciesQuebec.json")
	v.SetDefault("data.cut_categories_file", "InputData/CutTypeCategories.json")
	v.SetDefault("data.inventory_url",
		"https://diffusion.mffp.gouv.qc.ca/Diffusion/DonneeGratuite/Foret/DONNEES_FOR_ECO_SUD/Resultats_inventaire_et_carte_ecofor/02-Donnees/PROV/CARTE_ECO_ORI_PROV_GDB.zip")
	v.SetDefault("data.intervention_url",
		"https://diffusion.mffp.gouv.qc.ca/Diffusion/DonneeGratuite/Foret/INTERVENTIONS_FORESTIERES/Recolte_et_reboisement/02-Donnees/PROV/INTERV_FORES_PROV_GDB.zip")
	v.SetDefault("data.inventory_fields.age_class", "CL_AGE")
	v.SetDefault("data.inventory_fields.species_group", "GR_ESS")
	v.SetDefault("data.inventory_fields.terrain", "CO_TER")
	v.SetDefault("data.intervention_fields.fiscal_year", "EXERCICE")
	v.SetDefault("data.intervention_fields.origin", "ORIGINE")
	v.SetDefault("data.intervention_fields.origin_year", "AN_ORIGINE")
	v.SetDefault("data.intervention_fields.disturbance", "PERTURB")
	v.SetDefault("data.intervention_fields.disturbance_year", "AN_PERTURB")
	v.SetDefault("data.intervention_fields.reforest1", "REB_ESS1")
	v.SetDefault("data.intervention_fields.reforest2", "REB_ESS2")
	v.SetDefault("data.intervention_fields.reforest3", "REB_ESS3")
	v.SetDefault("overlay.checkpoint_path", "forest_cut_fragments.db")
	v.SetDefault("overlay.buffer_size", 5000)
	v.SetDefault("overlay.min_area", 1.0)
	v.SetDefault("output.matrix_csv", "forest_cut_matrix.csv")
	v.SetDefault("output.probability_csv", "forest_cut_matrix_probabilities.csv")
	v.SetDefault("output.excluded_cut_types", []string{"Commercial thinning", "Others"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
