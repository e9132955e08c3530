// Package insights groups a collection into eras by release year.
package insights

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Album is the slice of a record that era detection needs.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ReleaseDate string `json:"release_date"`
}

// Era is a group of albums with adjacent release years.
type Era struct {
	Name      string  `json:"name"`
	StartYear int     `json:"startYear"`
	EndYear   int     `json:"endYear"`
	Albums    []Album `json:"albums"`
}

// Config controls era detection.
type Config struct {
	// NumClusters is the target number of eras.
	NumClusters int

	// MinClusterSize folds smaller clusters into the outliers.
	MinClusterSize int
}

// DefaultConfig returns the detection defaults.
func DefaultConfig() Config {
	return Config{
		NumClusters:    3,
		MinClusterSize: 2,
	}
}

// albumObservation adapts an album's release year for k-means.
type albumObservation struct {
	album  Album
	coords clusters.Coordinates
}

func (o albumObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o albumObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// DetectEras clusters albums by release year. Albums without a parseable
// year, and clusters below the minimum size, come back as outliers.
func DetectEras(albums []Album, cfg Config) ([]Era, []Album) {
	if len(albums) == 0 {
		return nil, nil
	}

	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultConfig().NumClusters
	}
	if cfg.MinClusterSize <= 0 {
		cfg.MinClusterSize = DefaultConfig().MinClusterSize
	}

	// Separate albums with and without a usable year.
	var valid []Album
	var years []int
	var outliers []Album
	for _, a := range albums {
		year, ok := ReleaseYear(a.ReleaseDate)
		if !ok {
			outliers = append(outliers, a)
			continue
		}
		valid = append(valid, a)
		years = append(years, year)
	}

	if len(valid) == 0 {
		return nil, outliers
	}

	minYear := slices.Min(years)
	maxYear := slices.Max(years)

	// A flat collection is a single era, not a clustering problem.
	k := min(cfg.NumClusters, distinctCount(years))
	if k < 2 || len(valid) < cfg.NumClusters {
		if len(valid) < cfg.MinClusterSize {
			return nil, append(outliers, valid...)
		}
		era := buildEra(valid, years)
		return []Era{era}, outliers
	}

	// Normalize years to [0,1] so k-means works on a stable scale.
	span := float64(maxYear - minYear)
	var obs clusters.Observations
	for i, a := range valid {
		coord := float64(years[i]-minYear) / span
		obs = append(obs, albumObservation{
			album:  a,
			coords: clusters.Coordinates{coord},
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, k)
	if err != nil {
		// On error, fall back to one era covering everything.
		era := buildEra(valid, years)
		return []Era{era}, outliers
	}

	var eras []Era
	for _, cluster := range result {
		var clusterAlbums []Album
		var clusterYears []int
		for _, o := range cluster.Observations {
			if ao, ok := o.(albumObservation); ok {
				year, _ := ReleaseYear(ao.album.ReleaseDate)
				clusterAlbums = append(clusterAlbums, ao.album)
				clusterYears = append(clusterYears, year)
			}
		}

		if len(clusterAlbums) < cfg.MinClusterSize {
			outliers = append(outliers, clusterAlbums...)
			continue
		}

		eras = append(eras, buildEra(clusterAlbums, clusterYears))
	}

	slices.SortFunc(eras, func(a, b Era) int {
		return a.StartYear - b.StartYear
	})

	return eras, outliers
}

// buildEra assembles an era from albums and their years, sorted oldest first.
func buildEra(albums []Album, years []int) Era {
	type pair struct {
		album Album
		year  int
	}
	pairs := make([]pair, len(albums))
	for i := range albums {
		pairs[i] = pair{albums[i], years[i]}
	}
	slices.SortFunc(pairs, func(a, b pair) int {
		if a.year != b.year {
			return a.year - b.year
		}
		if a.album.Artist != b.album.Artist {
			if a.album.Artist < b.album.Artist {
				return -1
			}
			return 1
		}
		return 0
	})

	sorted := make([]Album, len(pairs))
	for i, p := range pairs {
		sorted[i] = p.album
	}

	start := pairs[0].year
	end := pairs[len(pairs)-1].year
	return Era{
		Name:      eraName(start, end),
		StartYear: start,
		EndYear:   end,
		Albums:    sorted,
	}
}

func eraName(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d–%d", start, end)
}

// ReleaseYear extracts the year from a release date string. Only the
// leading four digits are considered ("2022-02-25" and "2022" both parse).
func ReleaseYear(releaseDate string) (int, bool) {
	if len(releaseDate) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil || year < 1000 {
		return 0, false
	}
	return year, true
}

func distinctCount(years []int) int {
	seen := make(map[int]struct{}, len(years))
	for _, y := range years {
		seen[y] = struct{}{}
	}
	return len(seen)
}
