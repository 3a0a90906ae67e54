package report

// Config holds configuration for the outcome report.
type Config struct {
	// Path is the CSV file written by a run.
	Path string `mapstructure:"path" default:"cognito_groups_sync_report.csv"`
	// Append keeps rows of previous runs instead of rewriting the file.
	Append bool `mapstructure:"append" default:"false"`
	// Upload configures archiving of the finished report.
	Upload UploadConfig `mapstructure:"upload"`
}

// UploadConfig controls copying the finished report to object storage.
type UploadConfig struct {
	// Enabled turns the upload on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Bucket receives the report.
	Bucket string `mapstructure:"bucket" default:""`
	// Prefix is prepended to the object name.
	Prefix string `mapstructure:"prefix" default:"group-sync"`
}
