package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	Run    RunMetadata        `json:"run"`
	Ticks  []int              `json:"ticks"`
	Series map[string][]Float `json:"series"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, series *Series) error {
	data := ExportData{
		Run:    *meta,
		Ticks:  series.Ticks,
		Series: make(map[string][]Float, len(series.Values)),
	}
	for name, values := range series.Values {
		data.Series[name] = floats(values)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportCSV(w io.Writer, series *Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{"tick"}, series.Names...)); err != nil {
		return err
	}
	for i, tick := range series.Ticks {
		row := []string{strconv.Itoa(tick)}
		for _, n := range series.Names {
			row = append(row, strconv.FormatFloat(series.Values[n][i], 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
