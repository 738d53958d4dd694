package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"business-locator/internal/common/config"
	"business-locator/internal/common/logger"
	"business-locator/internal/export"
	"business-locator/internal/locator"
	"business-locator/internal/models"
	"business-locator/pkg/registry"
)

type stubProvider struct{}

func (stubProvider) Geocode(_ context.Context, address string) ([]models.Coordinate, error) {
	if address == "Nowhere" {
		return nil, nil
	}
	return []models.Coordinate{{Lat: 30.27, Lng: -97.74}}, nil
}

func (stubProvider) SearchPlaces(_ context.Context, query string, _ models.Coordinate, _ float64) ([]models.Candidate, error) {
	if query == "broken" {
		return nil, errors.New("REQUEST_DENIED")
	}
	return []models.Candidate{
		{PlaceID: "p1", Name: "Loaf", Address: "2 Main St", Location: models.Coordinate{Lat: 12.5}},
	}, nil
}

func (stubProvider) DistanceMatrix(_ context.Context, _ models.Coordinate, dests []models.Coordinate) ([]models.RouteResult, error) {
	out := make([]models.RouteResult, len(dests))
	for i, d := range dests {
		out[i] = models.RouteResult{Status: models.RouteOK, DurationSeconds: d.Lat * 60, DistanceMeters: 3218.68}
	}
	return out, nil
}

func (stubProvider) PlaceDetails(context.Context, string) (models.PlaceDetail, error) {
	return models.PlaceDetail{Website: models.String("https://loaf.example")}, nil
}

func setupTestCLI(t *testing.T, defaults []string) (*bytes.Buffer, *[]time.Duration) {
	t.Helper()
	origLoad, origProvider, origSleep := loadConfig, newProvider, sleep
	var sleeps []time.Duration

	loadConfig = func() (*config.Config, error) {
		return &config.Config{
			Search: config.SearchConfig{DefaultTerms: defaults, PacingDelay: 2000},
			Export: config.ExportConfig{OutputDir: t.TempDir()},
		}, nil
	}
	newProvider = func(*config.Config, logger.Logger) (locator.Provider, error) { return stubProvider{}, nil }
	sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	t.Cleanup(func() {
		loadConfig, newProvider, sleep = origLoad, origProvider, origSleep
		rootCmd.SetArgs(nil)
		resetFlags()
	})
	return buf, &sleeps
}

func resetFlags() {
	configPath, searchName, location, searchMode = "", "", "", "b"
	radiusMiles, maxDriveTime = 0, 0
	extraTerms, outputDir, logLevel = "", "", "warn"
	registryOut = "configs/activity-registry.json"
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	registryCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "locator-cli", rootCmd.Use)
	assert.NotNil(t, rootCmd.Flags().Lookup("max-drive-time"))
}

func TestRootCmd_RequiresLocation(t *testing.T) {
	setupTestCLI(t, nil)
	rootCmd.SetArgs([]string{"--terms", "bakery"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location")
}

func TestRootCmd_RejectsUnknownMode(t *testing.T) {
	setupTestCLI(t, nil)
	rootCmd.SetArgs([]string{"--location", "Austin, TX", "--mode", "x", "--terms", "bakery"})

	assert.Error(t, rootCmd.Execute())
}

func TestRootCmd_SearchWritesWorkbook(t *testing.T) {
	buf, sleeps := setupTestCLI(t, []string{"bakery"})
	dir := t.TempDir()
	rootCmd.SetArgs([]string{
		"--location", "Austin, TX",
		"--name", "Austin Treats",
		"--mode", "d",
		"--max-drive-time", "15",
		"--terms", "Cafe, broken",
		"--output-dir", dir,
	})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "Search terms: bakery, cafe, broken")
	assert.Contains(t, out, "1. Name: Loaf, Address: 2 Main St, Phone: N/A, Website: https://loaf.example, "+
		"URL: https://www.google.com/maps/place/?q=place_id:p1, Drive Time: 12.50 minutes, Distance: 2.00 miles, Search Term: bakery")
	assert.Contains(t, out, "Failed terms: broken")
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, *sleeps)

	path := filepath.Join(dir, "austin_treats_search_results.xlsx")
	assert.Contains(t, out, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "bakery, cafe", rows[1][7])
}

func TestRootCmd_AddressNotFound(t *testing.T) {
	buf, _ := setupTestCLI(t, nil)
	rootCmd.SetArgs([]string{"--location", "Nowhere", "--terms", "bakery", "--radius", "5"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Could not find coordinates for Nowhere.")
	assert.Contains(t, buf.String(), "Address not found for: bakery")
	assert.Contains(t, buf.String(), "nowhere_search_results.xlsx")
}

func TestFormatRecord(t *testing.T) {
	got := formatRecord(3, models.EnrichedRecord{
		Name: "A", Address: "B", Phone: "C", Website: "D", MapsURL: "E",
		DriveTimeMinutes: 7.456, DistanceMiles: 1, SearchTerm: "gym",
	})
	assert.Equal(t, "3. Name: A, Address: B, Phone: C, Website: D, URL: E, "+
		"Drive Time: 7.46 minutes, Distance: 1.00 miles, Search Term: gym", got)
}

func TestRegistryCmd_WritesActivities(t *testing.T) {
	buf, _ := setupTestCLI(t, nil)
	path := filepath.Join(t.TempDir(), "activity-registry.json")
	rootCmd.SetArgs([]string{"registry", "--out", path})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Wrote 1 activities")

	reg, err := registry.LoadRegistry(path)
	require.NoError(t, err)
	a, ok := reg.Find("business-search")
	require.True(t, ok)
	assert.Equal(t, "10m0s", a.Timeout)
	assert.Equal(t, 3, a.Retries)
}
