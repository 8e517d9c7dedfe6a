// Package refdata imports equipment spec and wage reference tables from
// local files or remote sources.
package refdata

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/treeai-operations/alex-cli/internal/crew"
	"github.com/treeai-operations/alex-cli/internal/equipment"
	"github.com/treeai-operations/alex-cli/internal/fetcher"
)

var (
	ErrUnsupportedFormat = eris.New("refdata: unsupported format")
	ErrBadRecord         = eris.New("refdata: bad record")
)

// Loader resolves reference data sources and parses them into cost model
// tables. Sources may be local paths, http(s) URLs, or ftp URLs, in CSV,
// XLSX, JSON, or ZIP (containing one of the former) format.
type Loader struct {
	http    fetcher.Fetcher
	ftp     fetcher.Fetcher
	tempDir string
}

// NewLoader creates a Loader. Either fetcher may be nil if that scheme is
// never used.
func NewLoader(httpFetcher, ftpFetcher fetcher.Fetcher, tempDir string) *Loader {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Loader{http: httpFetcher, ftp: ftpFetcher, tempDir: tempDir}
}

// specRecord mirrors one equipment spec row or JSON element.
type specRecord struct {
	Category          string  `json:"category"`
	MSRP              float64 `json:"msrp"`
	SalvagePct        float64 `json:"salvage_pct"`
	LifeHours         float64 `json:"life_hours"`
	FuelGPH           float64 `json:"fuel_gph"`
	MaintenanceFactor float64 `json:"maintenance_factor"`
}

// wageRecord mirrors one wage table row or JSON element.
type wageRecord struct {
	Position   string  `json:"position"`
	HourlyRate float64 `json:"hourly_rate"`
}

// LoadEquipmentSpecs reads an equipment spec table keyed by category.
// Expected columns: category, msrp, salvage_pct, life_hours, fuel_gph,
// maintenance_factor.
func (l *Loader) LoadEquipmentSpecs(ctx context.Context, source string) (map[equipment.Category]equipment.Spec, error) {
	rows, err := l.loadRows(ctx, source, 6, func(ctx context.Context, local string) ([][]string, error) {
		return specJSONRows(ctx, local)
	})
	if err != nil {
		return nil, err
	}

	specs := make(map[equipment.Category]equipment.Spec, len(rows))
	for _, row := range rows {
		vals, err := parseFloats(row[1:])
		if err != nil {
			return nil, eris.Wrapf(ErrBadRecord, "equipment spec %q: %v", row[0], err)
		}
		specs[equipment.Category(strings.ToLower(strings.TrimSpace(row[0])))] = equipment.Spec{
			MSRP:              vals[0],
			SalvagePct:        vals[1],
			LifeHours:         vals[2],
			FuelGPH:           vals[3],
			MaintenanceFactor: vals[4],
		}
	}
	zap.L().Info("loaded equipment specs",
		zap.String("source", source),
		zap.Int("categories", len(specs)),
	)
	return specs, nil
}

// LoadWages reads a wage table keyed by position. Expected columns:
// position, hourly_rate.
func (l *Loader) LoadWages(ctx context.Context, source string) (map[crew.Position]float64, error) {
	rows, err := l.loadRows(ctx, source, 2, func(ctx context.Context, local string) ([][]string, error) {
		return wageJSONRows(ctx, local)
	})
	if err != nil {
		return nil, err
	}

	wages := make(map[crew.Position]float64, len(rows))
	for _, row := range rows {
		rate, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil || rate <= 0 {
			return nil, eris.Wrapf(ErrBadRecord, "wage %q: invalid rate %q", row[0], row[1])
		}
		wages[crew.Position(strings.ToLower(strings.TrimSpace(row[0])))] = rate
	}
	zap.L().Info("loaded wage table",
		zap.String("source", source),
		zap.Int("positions", len(wages)),
	)
	return wages, nil
}

// ApplySpecs registers loaded specs on an equipment calculator.
func ApplySpecs(calc *equipment.Calculator, specs map[equipment.Category]equipment.Spec) {
	for cat, spec := range specs {
		calc.SetSpec(cat, spec)
	}
}

// ApplyWages registers loaded base rates on a crew calculator.
func ApplyWages(calc *crew.Calculator, wages map[crew.Position]float64) {
	for pos, rate := range wages {
		calc.SetBaseRate(pos, rate)
	}
}

// loadRows localizes the source, dispatches on extension, and returns data
// rows with at least minFields fields each. jsonRows handles the JSON case,
// which is typed per table.
func (l *Loader) loadRows(ctx context.Context, source string, minFields int, jsonRows func(context.Context, string) ([][]string, error)) ([][]string, error) {
	local, cleanup, err := l.localize(ctx, source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ext := strings.ToLower(filepath.Ext(local))
	if ext == ".zip" {
		inner, err := fetcher.ExtractZIPSingle(local, l.tempDir)
		if err != nil {
			return nil, eris.Wrapf(err, "refdata: extract %s", source)
		}
		defer os.Remove(inner) //nolint:errcheck
		local = inner
		ext = strings.ToLower(filepath.Ext(inner))
	}

	var rows [][]string
	switch ext {
	case ".csv":
		rows, err = csvRows(ctx, local)
	case ".xlsx":
		rows, err = fetcher.ReadXLSX(local, fetcher.XLSXOptions{SkipRows: 1})
	case ".json":
		rows, err = jsonRows(ctx, local)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "%s", source)
	}
	if err != nil {
		return nil, err
	}

	out := rows[:0]
	for _, row := range rows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}
		if len(row) < minFields {
			return nil, eris.Wrapf(ErrBadRecord, "row %v: want %d fields", row, minFields)
		}
		out = append(out, row)
	}
	return out, nil
}

// conditionalFetcher is satisfied by the HTTP fetcher. It lets a cached
// copy be reused when the server reports the table unchanged.
type conditionalFetcher interface {
	DownloadIfChanged(ctx context.Context, url, etag string) (io.ReadCloser, string, bool, error)
}

// localize returns a local file path for the source, downloading remote
// sources to the temp dir. HTTP downloads are cached with an ETag
// sidecar and persist across runs; the cleanup func removes any
// non-cached copy.
func (l *Loader) localize(ctx context.Context, source string) (string, func(), error) {
	noop := func() {}

	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare or Windows-style path.
		return source, noop, nil
	}

	var f fetcher.Fetcher
	switch u.Scheme {
	case "http", "https":
		f = l.http
	case "ftp":
		f = l.ftp
	case "file":
		return u.Path, noop, nil
	default:
		return "", noop, eris.Wrapf(ErrUnsupportedFormat, "scheme %q", u.Scheme)
	}
	if f == nil {
		return "", noop, eris.Errorf("refdata: no fetcher configured for scheme %q", u.Scheme)
	}

	if err := os.MkdirAll(l.tempDir, 0o755); err != nil {
		return "", noop, eris.Wrap(err, "refdata: create temp dir")
	}
	local := filepath.Join(l.tempDir, path.Base(u.Path))

	if cf, ok := f.(conditionalFetcher); ok {
		local, err := l.cachedDownload(ctx, cf, source, local)
		return local, noop, err
	}

	if _, err := f.DownloadToFile(ctx, source, local); err != nil {
		return "", noop, eris.Wrapf(err, "refdata: download %s", source)
	}
	return local, func() { _ = os.Remove(local) }, nil
}

// cachedDownload fetches source into local, skipping the transfer when
// the cached copy's ETag still matches.
func (l *Loader) cachedDownload(ctx context.Context, cf conditionalFetcher, source, local string) (string, error) {
	etagPath := local + ".etag"

	var etag string
	if _, err := os.Stat(local); err == nil {
		if b, err := os.ReadFile(etagPath); err == nil {
			etag = strings.TrimSpace(string(b))
		}
	}

	body, newETag, changed, err := cf.DownloadIfChanged(ctx, source, etag)
	if err != nil {
		return "", eris.Wrapf(err, "refdata: download %s", source)
	}
	if !changed {
		zap.L().Debug("refdata: cached copy still current", zap.String("source", source))
		return local, nil
	}
	defer body.Close() //nolint:errcheck

	out, err := os.Create(local)
	if err != nil {
		return "", eris.Wrap(err, "refdata: create cache file")
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, body); err != nil {
		return "", eris.Wrap(err, "refdata: write cache file")
	}

	if newETag != "" {
		_ = os.WriteFile(etagPath, []byte(newETag), 0o644)
	} else {
		_ = os.Remove(etagPath)
	}
	return local, nil
}

func csvRows(ctx context.Context, path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: open csv")
	}
	defer file.Close() //nolint:errcheck

	rowCh, errCh := fetcher.StreamCSV(ctx, file, fetcher.CSVOptions{
		HasHeader: true,
		Comment:   '#',
		TrimSpace: true,
	})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return rows, nil
}

func specJSONRows(ctx context.Context, path string) ([][]string, error) {
	return jsonRowsOf(ctx, path, func(r specRecord) []string {
		return []string{
			r.Category,
			formatFloat(r.MSRP), formatFloat(r.SalvagePct), formatFloat(r.LifeHours),
			formatFloat(r.FuelGPH), formatFloat(r.MaintenanceFactor),
		}
	})
}

func wageJSONRows(ctx context.Context, path string) ([][]string, error) {
	return jsonRowsOf(ctx, path, func(r wageRecord) []string {
		return []string{r.Position, formatFloat(r.HourlyRate)}
	})
}

func jsonRowsOf[T any](ctx context.Context, path string, toRow func(T) []string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: open json")
	}
	defer file.Close() //nolint:errcheck

	itemCh, errCh := fetcher.DecodeJSONArray[T](ctx, file)

	var rows [][]string
	for item := range itemCh {
		rows = append(rows, toRow(item))
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return rows, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
