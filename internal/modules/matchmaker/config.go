package matchmaker

// PeriodConfig parameterizes the square-wave diversity signal applied to
// match utilities. The wave is high for the first DutyCycle/5 fraction of
// every Active rounds.
type PeriodConfig struct {
	Active    int     `json:"active" mapstructure:"active"`
	DutyCycle float64 `json:"duty_cycle" mapstructure:"duty_cycle"`
}

// Config carries the matchmaker tunables. Zero values are not meaningful;
// start from DefaultConfig and override.
type Config struct {
	BaseElo        int `json:"base_elo" mapstructure:"base_elo"`
	PointsPerMatch int `json:"points_per_match" mapstructure:"points_per_match"`
	KFactor        int `json:"k_factor" mapstructure:"k_factor"`

	Period PeriodConfig `json:"period" mapstructure:"period"`

	TriggerThreshold int `json:"trigger_threshold" mapstructure:"trigger_threshold"`
	MaxHistory       int `json:"max_history" mapstructure:"max_history"`

	Principal string `json:"principal" mapstructure:"principal"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		BaseElo:          1000,
		PointsPerMatch:   1,
		KFactor:          32,
		Period:           PeriodConfig{Active: 3, DutyCycle: 1},
		TriggerThreshold: 10,
		MaxHistory:       3,
		Principal:        PrincipalMaxSum,
	}
}
