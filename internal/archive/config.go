package archive

import "codeberg.org/mutker/shellymon/internal/errors"

const (
	// File system permissions and paths
	defaultDirPerm   = 0o755
	defaultDBPath    = "shellymon.db"
	defaultBatchSize = 32
)

type Config struct {
	DBPath          string
	BatchSize       int
	BackupOnMigrate bool
	Enabled         bool
}

func DefaultConfig() Config {
	return Config{
		DBPath:          defaultDBPath,
		BatchSize:       defaultBatchSize,
		BackupOnMigrate: true,
		Enabled:         false, // Disabled by default
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate DBPath if the archive is enabled
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	if c.BatchSize < 0 {
		return errFactory.WithData(ErrInvalidConfig, "negative batch size")
	}
	return nil
}
