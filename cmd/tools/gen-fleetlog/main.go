// Command gen-fleetlog generates a synthetic fleet log CSV for testing
// imports and the scoring pipeline.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/banshee-data/fleet.report/internal/fleet"
)

var yardBays = []string{"Bay 1", "Bay 2", "Bay 3", "Bay 5", "Stabling Line A", "Stabling Line B"}

var jobCards = []string{
	"Closed", "Closed", "Closed", "Closed",
	"Open-Minor: wiper replacement",
	"Open-Minor: cabin light",
	"Open-Critical: brake inspection",
}

func main() {
	output := flag.String("o", "fleet_log.csv", "output path")
	trains := flag.Int("trains", 12, "number of trains")
	days := flag.Int("days", 30, "number of days of history")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	end := time.Now().Truncate(24 * time.Hour)
	start := end.AddDate(0, 0, -*days+1)

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *output, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"Train ID", "Date", "Mileage (km)", "Fitness Validity", "Job-card Status", "Branding Active", "Last Cleaned", "Yard Position", "Status"}
	if err := w.Write(header); err != nil {
		log.Fatalf("failed to write header: %v", err)
	}

	rows := 0
	for t := 0; t < *trains; t++ {
		trainID := fmt.Sprintf("T-%03d", 100+t)
		mileage := 2000 + rng.Float64()*4000
		validity := end.AddDate(0, 0, rng.Intn(40)-5)
		lastCleaned := start.AddDate(0, 0, rng.Intn(*days))
		branding := "No"
		if rng.Float64() < 0.4 {
			branding = "Yes"
		}
		jobCard := jobCards[rng.Intn(len(jobCards))]
		bay := yardBays[rng.Intn(len(yardBays))]

		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			// trains skip roughly one day in five
			if rng.Float64() < 0.2 {
				continue
			}
			mileage += 80 + rng.Float64()*120

			row := []string{
				trainID,
				d.Format(fleet.DateLayout),
				fmt.Sprintf("%.0f", mileage),
				validity.Format(fleet.DateLayout),
				jobCard,
				branding,
				lastCleaned.Format(fleet.DateLayout),
				bay,
				"In Service",
			}
			// sprinkle in the malformed values real exports have
			if rng.Float64() < 0.02 {
				row[2] = "n/a"
			}
			if rng.Float64() < 0.02 {
				row[3] = ""
			}
			if err := w.Write(row); err != nil {
				log.Fatalf("failed to write row: %v", err)
			}
			rows++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("failed to flush CSV: %v", err)
	}
	log.Printf("✓ Created: %s (%d rows, %d trains, %d days)", *output, rows, *trains, *days)
}
