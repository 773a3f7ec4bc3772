package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/supplyhub-backend/pkg/config"
	"github.com/angelmondragon/supplyhub-backend/pkg/db"
	"github.com/angelmondragon/supplyhub-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations at startup when running in dev with
// SUPPLYHUB_AUTO_MIGRATE set. Only postgres is migrated; other drivers are skipped.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})

	if driver := strings.ToLower(cfg.DB.Driver); driver != "" && driver != db.DriverPostgres {
		logg.Warn(ctx, "auto-migrate skipped: migrations target postgres")
		return nil
	}

	src := Embedded()
	if err := Validate(src); err != nil {
		return fmt.Errorf("validating migrations: %w", err)
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	if err := Run(ctx, sqlDB, src, "up"); err != nil {
		return err
	}

	version, err := CurrentVersion(sqlDB)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "schema_version", version), "dev migrations applied")
	return nil
}
