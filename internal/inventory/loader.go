package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ninjas3242/truck-bot/pkg/logging"
)

// ErrKnowledgeUnavailable is returned when no knowledge source could be
// loaded at all. Individual missing or malformed sources only degrade the
// index; this error means there is nothing to answer from.
var ErrKnowledgeUnavailable = errors.New("inventory: no knowledge sources loaded")

// truckDetail carries the enrichment columns that live in the per-condition
// detail feeds rather than the primary listing feed.
type truckDetail struct {
	year     int
	mileage  string
	features []string
}

// Load reads the flat-file knowledge base from dir and returns an immutable
// index. Each source that is missing or malformed is skipped with a warning;
// Load fails only when zero sources could be read.
func Load(dir string, logger *logging.Logger) (*Index, error) {
	if logger == nil {
		logger = logging.Default()
	}
	log := logger.WithComponent("inventory")

	loaded := 0

	details := map[string]truckDetail{}
	for _, name := range []string{"new_trucks.csv", "used_trucks.csv"} {
		d, err := loadDetailFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("skipping detail source", "file", name, "error", err)
			continue
		}
		for k, v := range d {
			details[k] = v
		}
		loaded++
	}

	trucks, err := loadTruckFile(filepath.Join(dir, "trucks.csv"), details, log)
	if err != nil {
		log.Warn("skipping truck source", "file", "trucks.csv", "error", err)
	} else {
		loaded++
	}

	contact, err := loadTextFile(filepath.Join(dir, "contact.txt"))
	if err != nil {
		log.Warn("skipping contact source", "file", "contact.txt", "error", err)
	} else {
		loaded++
	}

	dealers, snippets, n := loadTextSources(dir, log)
	loaded += n

	if loaded == 0 {
		// Callers may keep the empty index and run degraded.
		return &Index{}, ErrKnowledgeUnavailable
	}

	log.Info("knowledge base loaded",
		"trucks", len(trucks),
		"dealers", len(dealers),
		"snippets", len(snippets),
		"sources", loaded,
	)

	return &Index{
		trucks:   trucks,
		dealers:  dealers,
		contact:  contact,
		snippets: snippets,
	}, nil
}

// loadTruckFile reads the primary listing feed and enriches each row with
// year/mileage/features from the detail feeds, matched by name.
func loadTruckFile(path string, details map[string]truckDetail, log *logging.Logger) ([]Record, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, row := range rows {
		title := strings.TrimSpace(cell(row, header, "name", "title"))
		if title == "" {
			// A listing without a title cannot be shown or ranked.
			log.Warn("dropping untitled listing", "file", filepath.Base(path))
			continue
		}

		rec := Record{
			Title:     title,
			Capacity:  strings.TrimSpace(cell(row, header, "capacity", "horses")),
			Condition: parseCondition(cell(row, header, "condition")),
			ImageURL:  strings.TrimSpace(cell(row, header, "image_url", "image")),
			DetailURL: strings.TrimSpace(cell(row, header, "url", "detail_url")),
			Category:  parseCategory(title),
		}

		if d, ok := matchDetail(details, title); ok {
			rec.Year = d.year
			rec.Mileage = d.mileage
			rec.Features = d.features
		}

		records = append(records, rec)
	}
	return records, nil
}

// loadDetailFile reads one of the per-condition detail feeds keyed by
// lowercase truck name.
func loadDetailFile(path string) (map[string]truckDetail, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	details := make(map[string]truckDetail, len(rows))
	for _, row := range rows {
		name := strings.ToLower(strings.TrimSpace(cell(row, header, "name")))
		if name == "" {
			continue
		}
		d := truckDetail{
			mileage: strings.TrimSpace(cell(row, header, "mileage")),
		}
		if y, err := strconv.Atoi(strings.TrimSpace(cell(row, header, "year"))); err == nil && validYear(y) {
			d.year = y
		}
		if f := strings.TrimSpace(cell(row, header, "features")); f != "" {
			for _, part := range strings.Split(f, ",") {
				if part = strings.TrimSpace(part); part != "" {
					d.features = append(d.features, part)
				}
			}
		}
		details[name] = d
	}
	return details, nil
}

// matchDetail looks up enrichment data for a listing. Detail feeds key by a
// shorter name that appears inside the listing title, so match by substring.
func matchDetail(details map[string]truckDetail, title string) (truckDetail, bool) {
	lower := strings.ToLower(title)
	if d, ok := details[lower]; ok {
		return d, true
	}
	for name, d := range details {
		if strings.Contains(lower, name) {
			return d, true
		}
	}
	return truckDetail{}, false
}

// loadTextSources scans dir for free-text sources: dealer files (brand tag
// inferred from filename) and any remaining .txt files, which become
// knowledge snippets. Returns the number of sources read.
func loadTextSources(dir string, log *logging.Logger) (map[string]DealerRecord, []string, int) {
	dealers := make(map[string]DealerRecord)
	var snippets []string
	loaded := 0

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("cannot scan data dir", "dir", dir, "error", err)
		return dealers, snippets, 0
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") || name == "contact.txt" {
			continue
		}
		text, err := loadTextFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("skipping text source", "file", name, "error", err)
			continue
		}
		loaded++

		if brand := dealerBrand(name); brand != "" {
			// Later loads overwrite earlier ones for the same tag.
			dealers[brand] = DealerRecord{Brand: brand, Text: text}
			continue
		}
		for _, block := range strings.Split(text, "\n\n") {
			if block = strings.TrimSpace(block); block != "" {
				snippets = append(snippets, block)
			}
		}
	}
	return dealers, snippets, loaded
}

// dealerBrand extracts the brand tag from a dealer filename, or "" when the
// file is not a dealer source.
func dealerBrand(filename string) string {
	lower := strings.ToLower(filename)
	if !strings.Contains(lower, "dealer") {
		return ""
	}
	for _, brand := range []string{"STX", "AKX", "KETTERER"} {
		if strings.Contains(lower, strings.ToLower(brand)) {
			return brand
		}
	}
	return ""
}

func loadTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("inventory: %s is empty", filepath.Base(path))
	}
	return text, nil
}

// readCSV reads all rows of a CSV file and returns them with a lowercase
// header index. Short rows are tolerated; the csv reader is lenient about
// per-row field counts because the source exports are hand-maintained.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headerRow, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("inventory: reading header of %s: %w", filepath.Base(path), err)
	}
	header := make(map[string]int, len(headerRow))
	for i, h := range headerRow {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("inventory: reading %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// cell returns the value of the first matching column name, or "".
func cell(row []string, header map[string]int, names ...string) string {
	for _, name := range names {
		if i, ok := header[name]; ok && i < len(row) {
			return row[i]
		}
	}
	return ""
}
