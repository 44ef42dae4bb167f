package transfer

import (
	"fmt"
	"strings"
	"time"

	"portfolio-api/internal/util"
)

// Archive names carry the generation moment in US Eastern time.
var easternTime = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// buildExportFilename produces e.g.
// example_com_12_portfolios_export_on_2024_06_01_at_03_15_pm.zip
func buildExportFilename(host string, count int, migration bool, now time.Time) string {
	variant := "portfolios_export"
	if migration {
		variant = "portfolios_migration_export"
	}

	est := now.In(easternTime)
	date := est.Format("2006_01_02")
	clock := strings.ToLower(est.Format("03_04_PM"))

	return fmt.Sprintf("%s_%d_%s_on_%s_at_%s.zip",
		util.SanitizeHost(host), count, variant, date, clock)
}
