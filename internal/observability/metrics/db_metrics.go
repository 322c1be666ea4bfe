package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "numbered_rows",
			Help: "Property rows carrying a weld number",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM part_properties WHERE name = 'WeldNumber' AND value <> ''")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "connectors",
			Help: "Connector parts in the piping model",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM plant_parts WHERE kind = 'connector'")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
