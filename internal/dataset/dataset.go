// Package dataset materializes the sample datasets for the forecasting
// workspace: real downloads where a public source exists, descriptive
// placeholder files where one does not.
package dataset

import (
	"time"
)

// Dataset describes one sample dataset the bootstrapper materializes.
type Dataset struct {
	Name      string
	SourceURL string // empty means no public source; a placeholder is written instead
	Dest      string // destination path relative to the workspace root
	Note      string // explanation written into placeholder files
}

// Result records the outcome of materializing one dataset.
type Result struct {
	Dataset     Dataset
	Placeholder bool
	Bytes       int64
	Duration    time.Duration
	FetchedAt   time.Time
	Err         error
}

// Materialized reports whether the dataset file exists on disk after the run.
func (r Result) Materialized() bool {
	return r.Err == nil
}

// Defaults returns the sample datasets for the renewable energy forecasting
// workspace: the OPSD hourly time series, and an ERA5 placeholder (real ERA5
// data comes through the authenticated CDS API, so there is nothing to fetch
// anonymously).
func Defaults() []Dataset {
	return []Dataset{
		{
			Name:      "opsd",
			SourceURL: "https://data.open-power-system-data.org/time_series/2020-10-06/time_series_60min_singleindex.csv",
			Dest:      "data/raw/opsd/time_series_60min_singleindex.csv",
		},
		{
			Name: "era5",
			Dest: "data/raw/era5/sample_era5_data.nc",
			Note: "ERA5 reanalysis data is distributed through the CDS API; configure it to download real data.",
		},
	}
}
