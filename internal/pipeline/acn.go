package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/voltcurve/evsessions/internal/adapter/acn"
	"github.com/voltcurve/evsessions/internal/config"
	"github.com/voltcurve/evsessions/internal/domain"
	"github.com/voltcurve/evsessions/internal/frame"
	"github.com/voltcurve/evsessions/internal/observability"
)

// acnEpochCursor is the cursor used when no raw file exists yet. Everything
// the ACN portal holds postdates it.
const acnEpochCursor = "Mon, 1 Jan 2018 00:00:00 GMT"

// Raw column names of the ACN sessions payload that feed the canonical schema.
const (
	acnColID         = "_id"
	acnColConnect    = "connectionTime"
	acnColDisconnect = "disconnectTime"
	acnColEnergy     = "kWhDelivered"
	acnColUserID     = "userID"
	acnColTimezone   = "timezone"
)

// acnLoader drives the paginated ACN sessions API for one site. Fetching is
// incremental: the connection time of the last persisted raw row becomes the
// cursor for the next run, so finished runs only pull records newer than
// what is already on disk.
type acnLoader struct {
	datasetID string
	siteID    string

	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics

	rawPath       string
	formattedPath string
}

func newACNLoader(datasetID, siteID string, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, rawPath, formattedPath string) *acnLoader {
	return &acnLoader{
		datasetID:     datasetID,
		siteID:        siteID,
		cfg:           cfg,
		logger:        logger.With("dataset", datasetID),
		metrics:       metrics,
		rawPath:       rawPath,
		formattedPath: formattedPath,
	}
}

func (l *acnLoader) DatasetID() string { return l.datasetID }

func (l *acnLoader) Source() string { return "acn-api" }

// Fetch pulls pages of sessions newer than the stored cursor and persists
// the accumulated raw frame after every page, so an interrupted run resumes
// where it stopped instead of starting over. force has no special meaning
// here: the fetch is always incremental, and already-persisted rows are
// never re-requested.
func (l *acnLoader) Fetch(ctx context.Context, force bool) error {
	token, err := acn.LoadToken(l.cfg.ACNTokenFile)
	if err != nil {
		return err
	}
	client := acn.NewClient(token, l.cfg.ACNBaseURL, l.cfg.HTTPTimeout, l.logger)

	cursor := acnEpochCursor
	var acc *frame.Frame
	if fileExists(l.rawPath) {
		acc, err = frame.ReadFile(l.rawPath, ',')
		if err != nil {
			return fmt.Errorf("read raw cache: %w", err)
		}
		if acc.NumRows() > 0 {
			cursor, err = acc.Cell(acc.NumRows()-1, acnColConnect)
			if err != nil {
				return fmt.Errorf("raw cache has no %s column: %w", acnColConnect, err)
			}
		}
	}

	l.metrics.FetchRunning.Set(1)
	defer l.metrics.FetchRunning.Set(0)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		items, err := client.FetchPage(ctx, l.siteID, cursor, l.cfg.ACNPageSize)
		if err != nil {
			l.metrics.FetchErrors.Inc()
			return err
		}
		if len(items) == 0 {
			break
		}
		l.metrics.PagesFetched.Inc()
		l.metrics.RecordsFetched.Add(float64(len(items)))

		page, err := frameFromItems(items)
		if err != nil {
			return fmt.Errorf("shape page: %w", err)
		}
		next, err := page.Cell(page.NumRows()-1, acnColConnect)
		if err != nil {
			return fmt.Errorf("page is missing %s: %w", acnColConnect, err)
		}

		if acc == nil {
			acc = page
		} else {
			page, err = dropKnownIDs(acc, page)
			if err != nil {
				return err
			}
			acc = acc.Union(page)
		}
		if err := acc.WriteFile(l.rawPath, ','); err != nil {
			return fmt.Errorf("persist raw cache: %w", err)
		}

		l.logger.Info("fetched page", "records", len(items), "cursor", cursor, "total_rows", acc.NumRows())
		cursor = next
	}

	if acc == nil {
		return &domain.IntegrityError{Reason: fmt.Sprintf("source returned no records for %s", l.datasetID)}
	}
	return nil
}

// Normalize derives the canonical four-column formatted file from the raw
// frame: timestamps become naive local time in the dataset's single
// timezone, and user identifiers are anonymized into compact EV tokens.
func (l *acnLoader) Normalize(ctx context.Context) error {
	raw, err := frame.ReadFile(l.rawPath, ',')
	if err != nil {
		return fmt.Errorf("read raw cache: %w", err)
	}

	sel, err := raw.Select(acnColID, acnColConnect, acnColDisconnect, acnColEnergy, acnColUserID, acnColTimezone)
	if err != nil {
		return fmt.Errorf("raw frame: %w", err)
	}

	zones, err := sel.Column(acnColTimezone)
	if err != nil {
		return err
	}
	zone, err := domain.SingleZone(zones)
	if err != nil {
		return err
	}

	for _, col := range []string{acnColConnect, acnColDisconnect} {
		values, err := sel.Column(col)
		if err != nil {
			return err
		}
		for i, v := range values {
			local, err := domain.ToLocalNaive(v, zone)
			if err != nil {
				var pe *domain.ParseError
				if errors.As(err, &pe) {
					pe.Column = col
				}
				return err
			}
			values[i] = local
		}
		if err := sel.SetColumn(col, values); err != nil {
			return err
		}
	}

	userIDs, err := sel.Column(acnColUserID)
	if err != nil {
		return err
	}
	if err := sel.AddColumn(domain.ColEVID, domain.Factorize(domain.FillMissingIDs(userIDs))); err != nil {
		return err
	}

	renamed, err := sel.Rename(map[string]string{
		acnColConnect:    domain.ColStartDatetime,
		acnColDisconnect: domain.ColEndDatetime,
		acnColEnergy:     domain.ColTotalEnergy,
	})
	if err != nil {
		return err
	}
	formatted, err := renamed.Select(domain.RequiredColumns...)
	if err != nil {
		return err
	}
	if _, err := domain.Validate(formatted); err != nil {
		return err
	}

	if err := formatted.WriteFile(l.formattedPath, ','); err != nil {
		return fmt.Errorf("persist formatted file: %w", err)
	}
	l.logger.Info("normalized dataset", "rows", formatted.NumRows(), "timezone", zone)
	return nil
}

// frameFromItems shapes decoded JSON records into a frame over the union of
// every key present in the page, in sorted order. Nested objects flatten into
// dot-joined columns; arrays keep their JSON encoding as a single cell.
func frameFromItems(items []map[string]any) (*frame.Frame, error) {
	flat := make([]map[string]string, len(items))
	colSet := make(map[string]bool)
	for i, item := range items {
		flat[i] = make(map[string]string)
		flattenInto(flat[i], "", item)
		for k := range flat[i] {
			colSet[k] = true
		}
	}

	cols := make([]string, 0, len(colSet))
	for c := range colSet {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	f, err := frame.New(cols)
	if err != nil {
		return nil, err
	}
	for _, record := range flat {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = record[c]
		}
		if err := f.Append(row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func flattenInto(dst map[string]string, prefix string, value map[string]any) {
	for k, v := range value {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(dst, key, nested)
			continue
		}
		dst[key] = cellString(v)
	}
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case json.Number:
		return t.String()
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(encoded)
	}
}

// dropKnownIDs removes rows from page whose record id already occurs in acc.
// Pagination by a strict connectionTime cursor can re-deliver the boundary
// record when several sessions share a connection time.
func dropKnownIDs(acc, page *frame.Frame) (*frame.Frame, error) {
	if !acc.Has(acnColID) || !page.Has(acnColID) {
		return page, nil
	}
	known, err := acc.Column(acnColID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(known))
	for _, id := range known {
		seen[id] = true
	}

	out, err := frame.New(page.Columns())
	if err != nil {
		return nil, err
	}
	for i := 0; i < page.NumRows(); i++ {
		id, err := page.Cell(i, acnColID)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		if err := out.Append(page.Row(i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
