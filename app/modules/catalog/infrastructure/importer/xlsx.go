// Package importer loads the song/pattern reference data from the xlsx
// workbook the chart team maintains. The workbook has a "Songs" sheet and a
// "Patterns" sheet, each with a header row.
package importer

import (
	"fmt"
	"strconv"

	catalogdb "github.com/platina-lab/platina-lab/app/modules/catalog/infrastructure/repositories"
	sharedtypes "github.com/platina-lab/platina-lab/app/shared/types"
	"github.com/xuri/excelize/v2"
)

const (
	songsSheet    = "Songs"
	patternsSheet = "Patterns"
)

// LoadWorkbook parses the reference workbook at path into catalog rows.
func LoadWorkbook(path string) ([]catalogdb.Song, []catalogdb.Pattern, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	songs, err := parseSongs(f)
	if err != nil {
		return nil, nil, err
	}
	patterns, err := parsePatterns(f)
	if err != nil {
		return nil, nil, err
	}
	return songs, patterns, nil
}

func parseSongs(f *excelize.File) ([]catalogdb.Song, error) {
	rows, err := f.GetRows(songsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", songsSheet, err)
	}

	var songs []catalogdb.Song
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 7 {
			return nil, fmt.Errorf("%s row %d: expected 7 columns, got %d", songsSheet, i+1, len(row))
		}
		songID, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad song id %q: %w", songsSheet, i+1, row[0], err)
		}
		songs = append(songs, catalogdb.Song{
			SongID:    songID,
			Title:     row[1],
			Artist:    row[2],
			BPM:       row[3],
			DLC:       row[4],
			PHash:     row[5],
			PlusPHash: row[6],
		})
	}
	return songs, nil
}

func parsePatterns(f *excelize.File) ([]catalogdb.Pattern, error) {
	rows, err := f.GetRows(patternsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", patternsSheet, err)
	}

	var patterns []catalogdb.Pattern
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 5 {
			return nil, fmt.Errorf("%s row %d: expected 5 columns, got %d", patternsSheet, i+1, len(row))
		}
		songID, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad song id %q: %w", patternsSheet, i+1, row[0], err)
		}
		lineVal, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad line %q: %w", patternsSheet, i+1, row[1], err)
		}
		line := sharedtypes.Line(lineVal)
		if !line.IsValid() {
			return nil, fmt.Errorf("%s row %d: line must be 4 or 6, got %d", patternsSheet, i+1, lineVal)
		}
		difficulty := sharedtypes.Difficulty(row[2])
		if !difficulty.IsValid() {
			return nil, fmt.Errorf("%s row %d: unknown difficulty %q", patternsSheet, i+1, row[2])
		}
		level, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad level %q: %w", patternsSheet, i+1, row[3], err)
		}
		patterns = append(patterns, catalogdb.Pattern{
			SongID:     songID,
			Line:       line,
			Difficulty: difficulty,
			Level:      level,
			Designer:   row[4],
		})
	}
	return patterns, nil
}
