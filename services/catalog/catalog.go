// Package catalog loads reference data (ingredients and tags) from CSV files.
//
// Imports are idempotent: rows already present, or repeated within the file,
// are counted as duplicates and not inserted again. Malformed rows are skipped
// with a warning and never abort the batch.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"foodgram-backend/database"
	"foodgram-backend/models"
	"foodgram-backend/services/activity"
	"foodgram-backend/services/metrics"
	"foodgram-backend/structs"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	gormbulk "github.com/t-tiger/gorm-bulk-insert/v2"
)

type Kind string

const (
	KindIngredients Kind = "ingredients"
	KindTags        Kind = "tags"
)

const (
	ingredientNameMaxLength = 128
	ingredientUnitMaxLength = 64
	tagNameMaxLength        = 32
	tagSlugMaxLength        = 32

	bulkChunkSize = 3000
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func ParseKind(value string) (Kind, error) {
	switch Kind(value) {
	case "", KindIngredients:
		return KindIngredients, nil
	case KindTags:
		return KindTags, nil
	default:
		return "", fmt.Errorf("unknown catalog kind %q", value)
	}
}

// Report summarizes one import run.
type Report struct {
	Kind       Kind                 `json:"kind"`
	File       string               `json:"file,omitempty"`
	Total      int                  `json:"total"`
	Created    int                  `json:"created"`
	Duplicates int                  `json:"duplicates"`
	Skipped    int                  `json:"skipped"`
	Warnings   []structs.ErrorModel `json:"warnings,omitempty"`
}

type ImportService struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewImportService(db *gorm.DB, logger *logrus.Entry) *ImportService {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ImportService{db: db, logger: logger}
}

// ImportFile imports path as the given kind and records the run in the activity log.
func (s *ImportService) ImportFile(kind Kind, path string) (Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return Report{Kind: kind, File: path}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var report Report
	switch kind {
	case KindIngredients:
		report, err = s.ImportIngredients(file)
	case KindTags:
		report, err = s.ImportTags(file)
	default:
		return Report{Kind: kind, File: path}, fmt.Errorf("unknown catalog kind %q", kind)
	}
	report.File = path

	if logErr := activity.Insert(s.db, "catalog.import."+string(kind), "catalog import", activityModel(report, err)); logErr != nil {
		s.logger.WithField("error_message", logErr.Error()).Error("failed to record import in activity log")
	}
	return report, err
}

type record struct {
	line   int
	fields []string
	err    error
}

// readRecords returns every line of r in order; lines the CSV reader rejects carry err.
func readRecords(r io.Reader) []record {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				records = append(records, record{err: err})
				break
			}
			records = append(records, record{line: parseErr.StartLine, err: err})
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
	return records
}

func (s *ImportService) skip(report *Report, line int, message string) {
	report.Skipped++
	report.Warnings = append(report.Warnings, structs.ErrorModel{Line: line, ErrorMessage: message})
	metrics.CatalogImportRows.WithLabelValues(string(report.Kind), "skipped").Inc()
	s.logger.WithFields(logrus.Fields{"task": "catalog-import", "kind": report.Kind, "line": line}).Warn("skipped malformed row: " + message)
}

type ingredientKey struct {
	name string
	unit string
}

// ImportIngredients reads (name, measurement_unit) rows and inserts the ones not yet stored.
func (s *ImportService) ImportIngredients(r io.Reader) (Report, error) {
	report := Report{Kind: KindIngredients}
	records := readRecords(r)

	var existing []models.Ingredient
	if err := s.db.Select("name, measurement_unit").Find(&existing).Error; err != nil {
		return report, fmt.Errorf("failed to load existing ingredients: %w", err)
	}
	seen := make(map[ingredientKey]bool, len(existing)+len(records))
	for _, ingredient := range existing {
		seen[ingredientKey{ingredient.Name, ingredient.MeasurementUnit}] = true
	}

	var insertRecords []interface{}
	for i, rec := range records {
		if i == 0 && rec.err == nil && isHeader(rec.fields, "name", "measurement_unit") {
			continue
		}
		report.Total++

		if rec.err != nil {
			s.skip(&report, rec.line, rec.err.Error())
			continue
		}
		if len(rec.fields) < 2 {
			s.skip(&report, rec.line, "expected name and measurement_unit columns")
			continue
		}
		name := strings.TrimSpace(rec.fields[0])
		unit := strings.TrimSpace(rec.fields[1])
		if name == "" || unit == "" {
			s.skip(&report, rec.line, "name and measurement_unit must not be empty")
			continue
		}
		if utf8.RuneCountInString(name) > ingredientNameMaxLength || utf8.RuneCountInString(unit) > ingredientUnitMaxLength {
			s.skip(&report, rec.line, "name or measurement_unit is too long")
			continue
		}

		key := ingredientKey{name, unit}
		if seen[key] {
			report.Duplicates++
			continue
		}
		seen[key] = true
		insertRecords = append(insertRecords, &models.Ingredient{Name: name, MeasurementUnit: unit})
	}

	created, conflicts, err := s.insert(insertRecords)
	if err != nil {
		return report, fmt.Errorf("failed to insert ingredients: %w", err)
	}
	report.Created = created
	report.Duplicates += conflicts
	s.observe(report)
	return report, nil
}

// ImportTags reads (name, slug) rows, deduplicated by slug.
func (s *ImportService) ImportTags(r io.Reader) (Report, error) {
	report := Report{Kind: KindTags}
	records := readRecords(r)

	var existing []models.Tag
	if err := s.db.Select("slug").Find(&existing).Error; err != nil {
		return report, fmt.Errorf("failed to load existing tags: %w", err)
	}
	seen := make(map[string]bool, len(existing)+len(records))
	for _, tag := range existing {
		seen[tag.Slug] = true
	}

	var insertRecords []interface{}
	for i, rec := range records {
		if i == 0 && rec.err == nil && isHeader(rec.fields, "name", "slug") {
			continue
		}
		report.Total++

		if rec.err != nil {
			s.skip(&report, rec.line, rec.err.Error())
			continue
		}
		if len(rec.fields) < 2 {
			s.skip(&report, rec.line, "expected name and slug columns")
			continue
		}
		name := strings.TrimSpace(rec.fields[0])
		slug := strings.TrimSpace(rec.fields[1])
		if name == "" || utf8.RuneCountInString(name) > tagNameMaxLength {
			s.skip(&report, rec.line, "tag name must be 1-32 characters")
			continue
		}
		if len(slug) > tagSlugMaxLength || !slugPattern.MatchString(slug) {
			s.skip(&report, rec.line, fmt.Sprintf("invalid slug %q", slug))
			continue
		}

		if seen[slug] {
			report.Duplicates++
			continue
		}
		seen[slug] = true
		insertRecords = append(insertRecords, &models.Tag{Name: name, Slug: slug})
	}

	created, conflicts, err := s.insert(insertRecords)
	if err != nil {
		return report, fmt.Errorf("failed to insert tags: %w", err)
	}
	report.Created = created
	report.Duplicates += conflicts
	s.observe(report)
	return report, nil
}

// insert stores insertRecords in one bulk insert. When the database rejects the
// batch, the rows are retried one at a time and those its unique indexes refuse
// (rows equal under the column collation, or stored concurrently) count as conflicts.
func (s *ImportService) insert(insertRecords []interface{}) (created, conflicts int, err error) {
	if len(insertRecords) == 0 {
		return 0, 0, nil
	}
	bulkErr := s.bulkInsert(insertRecords)
	if bulkErr == nil {
		return len(insertRecords), 0, nil
	}
	s.logger.WithField("error_message", bulkErr.Error()).Warn("bulk insert failed, inserting row by row")

	for _, record := range insertRecords {
		err := s.db.Create(record).Error
		switch {
		case err == nil:
			created++
		case database.IsUniqueViolation(err):
			conflicts++
		default:
			return created, conflicts, err
		}
	}
	return created, conflicts, nil
}

func (s *ImportService) bulkInsert(insertRecords []interface{}) error {
	tx := s.db.Begin()
	if err := tx.Error; err != nil {
		return err
	}
	if err := gormbulk.BulkInsert(tx, insertRecords, bulkChunkSize); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (s *ImportService) observe(report Report) {
	metrics.CatalogImportRows.WithLabelValues(string(report.Kind), "created").Add(float64(report.Created))
	metrics.CatalogImportRows.WithLabelValues(string(report.Kind), "duplicate").Add(float64(report.Duplicates))
	s.logger.WithFields(logrus.Fields{
		"task":       "catalog-import",
		"kind":       report.Kind,
		"total":      report.Total,
		"created":    report.Created,
		"duplicates": report.Duplicates,
		"skipped":    report.Skipped,
	}).Info("catalog import finished")
}

func isHeader(fields []string, columns ...string) bool {
	if len(fields) < len(columns) {
		return false
	}
	for i, column := range columns {
		if !strings.EqualFold(strings.TrimSpace(fields[i]), column) {
			return false
		}
	}
	return true
}

func activityModel(report Report, err error) structs.ActivityLogJsonModel {
	model := structs.ActivityLogJsonModel{
		Type:   string(report.Kind),
		File:   report.File,
		Result: err == nil,
		Statistic: structs.StatisticModel{
			Total:      report.Total,
			Created:    report.Created,
			Duplicates: report.Duplicates,
			Skipped:    report.Skipped,
		},
		Messages: report.Warnings,
	}
	if err != nil {
		model.Message = err.Error()
	} else {
		model.Message = "ok"
	}
	return model
}
