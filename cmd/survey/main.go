// Command survey runs the DEM differencing pipeline over every dataset pair
// in a survey configuration and reports total displaced sediment mass per
// dataset. Estimates can optionally be persisted to SQLite and rendered as
// charts.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/riverbed-data/sediment.report/internal/change"
	"github.com/riverbed-data/sediment.report/internal/config"
	"github.com/riverbed-data/sediment.report/internal/monitoring"
	"github.com/riverbed-data/sediment.report/internal/raster"
	"github.com/riverbed-data/sediment.report/internal/report"
	"github.com/riverbed-data/sediment.report/internal/surveydb"
	"github.com/riverbed-data/sediment.report/internal/version"
)

var (
	configPath    = flag.String("config", "survey.json", "Survey configuration file")
	dbPath        = flag.String("db", "", "SQLite database path (overrides config)")
	chartDir      = flag.String("charts", "", "Chart output directory (overrides config)")
	migrationsDir = flag.String("migrations", "", "Run schema migrations from this directory before recording")
	migrateAction = flag.String("migrate", "", "Run a migration action (up, down, status) and exit; requires -db and -migrations")
	dumpDir       = flag.String("dump-diff", "", "Write accepted difference grids as ESRI ASCII to this directory")
	quiet         = flag.Bool("quiet", false, "Suppress diagnostic logging")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *quiet {
		monitoring.SetLogger(nil)
	}

	if *migrateAction != "" {
		runMigrate(*migrateAction, *dbPath, *migrationsDir)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load survey config: %v", err)
	}

	database := *dbPath
	if database == "" && cfg.Database != nil {
		database = *cfg.Database
	}
	charts := *chartDir
	if charts == "" && cfg.ChartDir != nil {
		charts = *cfg.ChartDir
	}

	var db *surveydb.DB
	if database != "" {
		db, err = surveydb.New(database)
		if err != nil {
			log.Fatalf("failed to open survey database: %v", err)
		}
		defer db.Close()

		if *migrationsDir != "" {
			if err := db.MigrateUp(*migrationsDir); err != nil {
				log.Fatalf("failed to migrate survey database: %v", err)
			}
		}
	}

	runID := surveydb.NewRunID()
	monitoring.Logf("survey run %s: %d dataset pair(s)", runID, len(cfg.Datasets))

	var results []*change.Result
	failures := 0
	for i := range cfg.Datasets {
		d := &cfg.Datasets[i]
		params := d.Params()

		res, err := change.Run(params)
		if err != nil {
			// Fatal for this dataset only; the rest of the survey continues.
			log.Printf("dataset %s failed: %v", d.Name, err)
			failures++
			continue
		}
		results = append(results, res)

		if db != nil {
			if err := db.RecordEstimate(runID, params, res); err != nil {
				log.Printf("dataset %s: %v", d.Name, err)
			}
		}
		if *dumpDir != "" && res.Accepted != nil {
			if err := os.MkdirAll(*dumpDir, 0755); err != nil {
				log.Fatalf("failed to create dump directory: %v", err)
			}
			out := filepath.Join(*dumpDir, d.Name+"_diff.asc")
			if err := raster.Write(out, res.Accepted); err != nil {
				log.Printf("dataset %s: %v", d.Name, err)
			}
		}
		if charts != "" && !res.Degenerate() {
			heatmap := filepath.Join(charts, d.Name+"_diff.html")
			if err := report.Heatmap(heatmap, d.Name, res.Diff); err != nil {
				log.Printf("dataset %s: %v", d.Name, err)
			}
			hist := filepath.Join(charts, d.Name+"_hist.png")
			if err := report.Histogram(hist, d.Name, res.Diff, 0); err != nil {
				log.Printf("dataset %s: %v", d.Name, err)
			}
		}
	}

	report.WriteText(os.Stdout, results)

	if failures > 0 {
		log.Fatalf("%d of %d dataset pair(s) failed", failures, len(cfg.Datasets))
	}
}

// runMigrate dispatches a standalone migration action against the survey
// database and exits without touching any dataset.
func runMigrate(action, dbPath, migrationsDir string) {
	if dbPath == "" || migrationsDir == "" {
		log.Fatal("-migrate requires -db and -migrations")
	}

	db, err := surveydb.New(dbPath)
	if err != nil {
		log.Fatalf("failed to open survey database: %v", err)
	}
	defer db.Close()

	switch action {
	case "up":
		if err := db.MigrateUp(migrationsDir); err != nil {
			log.Fatalf("migration up failed: %v", err)
		}
		log.Println("all migrations applied")

	case "down":
		if err := db.MigrateDown(migrationsDir); err != nil {
			log.Fatalf("migration down failed: %v", err)
		}
		log.Println("rolled back one migration")

	case "status":
		version, dirty, err := db.MigrateVersion(migrationsDir)
		if err != nil {
			log.Fatalf("migration status failed: %v", err)
		}
		if version == 0 {
			fmt.Println("no migrations applied")
			return
		}
		state := "clean"
		if dirty {
			state = "dirty"
		}
		fmt.Printf("migration version %d (%s)\n", version, state)

	default:
		log.Fatalf("unknown migrate action %q (want up, down, or status)", action)
	}
}
