package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"sopulse/internal/errors"
)

// Column names in the harmonized survey CSV. Header matching is
// case-insensitive, with a few legacy spellings accepted per column.
const (
	colYear            = "year"
	colWorkMode        = "work_mode"
	colCompanySize     = "company_size"
	colJobSatisfaction = "job_satisfaction"
	colCompensation    = "compensation_annual"
	colExperience      = "experience_years_code_pro"
	colLanguages       = "languages_worked_with"
	colFrameworks      = "frameworks_worked_with"
)

// headerAliases maps legacy header spellings onto the canonical column
// names. Keys and values are lowercase.
var headerAliases = map[string]string{
	"survey_year":     colYear,
	"workmode":        colWorkMode,
	"remote_work":     colWorkMode,
	"org_size":        colCompanySize,
	"jobsat":          colJobSatisfaction,
	"comp_total":      colCompensation,
	"converted_comp":  colCompensation,
	"years_code_pro":  colExperience,
	"languages":       colLanguages,
	"language_worked": colLanguages,
	"frameworks":      colFrameworks,
}

// columnIndices resolves canonical column name to CSV column position
type columnIndices map[string]int

// Load reads the harmonized survey CSV into an immutable Dataset.
// The year column is mandatory: a file without it is unusable and the
// load fails with a configuration error. Rows whose year cell is empty
// or unparseable are dropped with a warning; any other cell that fails
// numeric coercion simply becomes a missing value. Work mode and
// company size are canonicalized during ingestion.
func Load(ctx context.Context, csvPath string) (*Dataset, error) {
	logger := slog.Default()

	logger.InfoContext(ctx, "loading survey dataset",
		slog.String("path", csvPath))

	file, err := os.Open(csvPath)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("open survey CSV %s", csvPath), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("read survey CSV header", err)
	}

	indices, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		records   []SurveyRecord
		dropped   int
		yearsSeen = make(map[int]struct{})
		line      = 1
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("read survey CSV row %d", line+1), err)
		}
		line++

		rec, ok := parseRecord(row, indices)
		if !ok {
			dropped++
			logger.WarnContext(ctx, "dropping survey row without a usable year",
				slog.Int("line", line))
			continue
		}

		yearsSeen[rec.Year] = struct{}{}
		records = append(records, rec)
	}

	years := make([]int, 0, len(yearsSeen))
	for y := range yearsSeen {
		years = append(years, y)
	}
	sort.Ints(years)

	logger.InfoContext(ctx, "survey dataset loaded",
		slog.Int("records", len(records)),
		slog.Int("dropped", dropped),
		slog.Int("years", len(years)))

	return &Dataset{Records: records, Years: years}, nil
}

// resolveColumns maps the canonical column names onto header positions.
// The first cell has any UTF-8 BOM stripped before matching. Only the
// year column is required; every other column is optional and its
// values read as missing when absent.
func resolveColumns(header []string) (columnIndices, error) {
	indices := make(columnIndices)

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if alias, ok := headerAliases[key]; ok {
			key = alias
		}

		switch key {
		case colYear, colWorkMode, colCompanySize, colJobSatisfaction,
			colCompensation, colExperience, colLanguages, colFrameworks:
			if _, exists := indices[key]; !exists {
				indices[key] = i
			}
		}
	}

	if _, ok := indices[colYear]; !ok {
		return nil, errors.NewConfigError(
			fmt.Sprintf("survey CSV has no year column (headers: %s)", strings.Join(header, ", ")), nil)
	}

	return indices, nil
}

// parseRecord converts one CSV row into a SurveyRecord. The second
// return value is false when the row has no usable year.
func parseRecord(row []string, indices columnIndices) (SurveyRecord, bool) {
	year, ok := cellInt(row, indices, colYear)
	if !ok {
		return SurveyRecord{}, false
	}

	rec := SurveyRecord{
		Year:                 year,
		WorkMode:             CanonicalWorkMode(cellString(row, indices, colWorkMode)),
		CompanySize:          CleanCompanySize(cellString(row, indices, colCompanySize)),
		JobSatisfaction:      cellFloat(row, indices, colJobSatisfaction),
		CompensationAnnual:   cellFloat(row, indices, colCompensation),
		ExperienceYearsCode:  cellFloat(row, indices, colExperience),
		LanguagesWorkedWith:  cellString(row, indices, colLanguages),
		FrameworksWorkedWith: cellString(row, indices, colFrameworks),
	}
	return rec, true
}

// cellString reads a string cell; empty or NA-like cells are missing
func cellString(row []string, indices columnIndices, col string) NullString {
	idx, ok := indices[col]
	if !ok || idx >= len(row) {
		return NullString{}
	}

	v := strings.TrimSpace(row[idx])
	if isMissing(v) {
		return NullString{}
	}
	return String(v)
}

// cellFloat reads a numeric cell; unparseable values become missing
func cellFloat(row []string, indices columnIndices, col string) NullFloat {
	idx, ok := indices[col]
	if !ok || idx >= len(row) {
		return NullFloat{}
	}

	v := strings.TrimSpace(row[idx])
	if isMissing(v) {
		return NullFloat{}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return NullFloat{}
	}
	return Float(f)
}

// cellInt reads an integer cell, tolerating float-formatted years
// such as "2021.0" that some survey exports produce
func cellInt(row []string, indices columnIndices, col string) (int, bool) {
	f := cellFloat(row, indices, col)
	if !f.Valid {
		return 0, false
	}
	return int(f.Value), true
}

// isMissing reports whether a trimmed cell encodes a missing answer
func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "na", "n/a", "nan", "null":
		return true
	}
	return false
}
