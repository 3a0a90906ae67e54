package batch

// Config holds configuration for chunked processing.
type Config struct {
	// Size is the number of items buffered before a batch is handed off.
	Size int `mapstructure:"size" default:"5"`
	// ItemDelayMs is the pause after every item, in milliseconds.
	ItemDelayMs int `mapstructure:"item_delay_ms" default:"1000"`
}
