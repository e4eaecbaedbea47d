package blob

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"grid-forecast/forecast"
	"grid-forecast/models"
)

const (
	COLUMN_SETTLEMENT_DATE           = "SETTLEMENT_DATE"
	COLUMN_SETTLEMENT_PERIOD         = "SETTLEMENT_PERIOD"
	COLUMN_ND                        = "ND"
	COLUMN_FORECAST_ACTUAL_INDICATOR = "FORECAST_ACTUAL_INDICATOR"

	COLUMN_TIMESTAMP = "Timestamp"
	COLUMN_DEMAND    = "Demand"

	// FORECAST_TIMESTAMP_LAYOUT is the timestamp format of forecast artifacts.
	FORECAST_TIMESTAMP_LAYOUT = "2006-01-02 15:04:05"
)

var settlementDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02-Jan-2006",
	"02/01/2006",
}

var forecastTimestampLayouts = []string{
	FORECAST_TIMESTAMP_LAYOUT,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseHistoryRows reads the demand history CSV. Columns are located by
// header name; extra columns are ignored.
func ParseHistoryRows(r io.Reader) ([]models.HistoryRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("history csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history csv header: %w", err)
	}

	idx, err := columnIndex(header,
		COLUMN_SETTLEMENT_DATE, COLUMN_SETTLEMENT_PERIOD, COLUMN_ND, COLUMN_FORECAST_ACTUAL_INDICATOR)
	if err != nil {
		return nil, err
	}

	var rows []models.HistoryRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read history csv line %d: %w", line, err)
		}
		row, err := parseHistoryRecord(record, idx)
		if err != nil {
			return nil, fmt.Errorf("history csv line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseHistoryRecord(record []string, idx map[string]int) (models.HistoryRow, error) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := models.HistoryRow{ForecastActualIndicator: field(COLUMN_FORECAST_ACTUAL_INDICATOR)}

	date, err := parseSettlementDate(field(COLUMN_SETTLEMENT_DATE))
	if err != nil {
		return row, err
	}
	row.SettlementDate = date

	period, err := strconv.Atoi(field(COLUMN_SETTLEMENT_PERIOD))
	if err != nil {
		return row, fmt.Errorf("invalid %s %q: %w", COLUMN_SETTLEMENT_PERIOD, field(COLUMN_SETTLEMENT_PERIOD), err)
	}
	row.SettlementPeriod = period

	nd := field(COLUMN_ND)
	if nd == "" && !row.IsActual() {
		return row, nil
	}
	row.ND, err = strconv.ParseFloat(nd, 64)
	if err != nil {
		return row, fmt.Errorf("invalid %s %q: %w", COLUMN_ND, nd, err)
	}
	return row, nil
}

func parseSettlementDate(s string) (time.Time, error) {
	for _, layout := range settlementDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", COLUMN_SETTLEMENT_DATE, s)
}

// ReadingsFromRows keeps the actual rows, maps them to timestamps and sorts
// them. Rows whose settlement period falls outside [1, 48] (clock-change days)
// are returned as skipped. When a timestamp repeats the later row wins.
func ReadingsFromRows(rows []models.HistoryRow) ([]models.DemandReading, []models.HistoryRow) {
	var skipped []models.HistoryRow
	byTime := make(map[time.Time]float64)
	for _, row := range rows {
		if !row.IsActual() {
			continue
		}
		ts, err := forecast.PeriodStart(row.SettlementDate, row.SettlementPeriod)
		if err != nil {
			skipped = append(skipped, row)
			continue
		}
		byTime[ts] = row.ND
	}

	readings := make([]models.DemandReading, 0, len(byTime))
	for ts, nd := range byTime {
		readings = append(readings, models.DemandReading{Timestamp: ts, Demand: nd})
	}
	sort.Slice(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings, skipped
}

// WriteForecastCSV writes series as Timestamp,Demand rows in order.
func WriteForecastCSV(w io.Writer, series models.ForecastSeries) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{COLUMN_TIMESTAMP, COLUMN_DEMAND}); err != nil {
		return err
	}
	for _, p := range series {
		record := []string{
			p.Timestamp.UTC().Format(FORECAST_TIMESTAMP_LAYOUT),
			strconv.FormatFloat(p.Demand, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ParseForecastCSV reads a forecast artifact written by WriteForecastCSV.
func ParseForecastCSV(r io.Reader) (models.ForecastSeries, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("forecast csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read forecast csv header: %w", err)
	}
	idx, err := columnIndex(header, COLUMN_TIMESTAMP, COLUMN_DEMAND)
	if err != nil {
		return nil, err
	}

	series := models.ForecastSeries{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read forecast csv line %d: %w", line, err)
		}
		ts, err := parseForecastTimestamp(strings.TrimSpace(record[idx[COLUMN_TIMESTAMP]]))
		if err != nil {
			return nil, fmt.Errorf("forecast csv line %d: %w", line, err)
		}
		demand, err := strconv.ParseFloat(strings.TrimSpace(record[idx[COLUMN_DEMAND]]), 64)
		if err != nil {
			return nil, fmt.Errorf("forecast csv line %d: invalid %s: %w", line, COLUMN_DEMAND, err)
		}
		series = append(series, models.ForecastPoint{Timestamp: ts, Demand: demand})
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series, nil
}

func parseForecastTimestamp(s string) (time.Time, error) {
	for _, layout := range forecastTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", COLUMN_TIMESTAMP, s)
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		for _, name := range required {
			if strings.EqualFold(h, name) {
				idx[name] = i
			}
		}
	}
	var missing []string
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv is missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}
