package io

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	stdio "io"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/shopspring/decimal"

	"github.com/ecopia-map/shapecloud/internal/data"
)

var DatasetCSVHeader = []string{"sample_id", "class", "point_id", "x", "y", "z"}

var ErrMalformedDatasetCSV = errors.New("malformed dataset csv")

// ReadCloudCSV parses x,y,z rows into a cloud. Blank lines and lines that do not start with three
// finite numbers are skipped and counted; fields past the third are ignored. Only read errors are
// returned.
func ReadCloudCSV(r stdio.Reader) (data.Cloud, int, error) {
	cloud := make(data.Cloud, 0)
	skipped := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p, ok := parsePointFields(strings.Split(line, ","))
		if !ok {
			skipped++
			continue
		}
		cloud = append(cloud, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, err
	}
	return cloud, skipped, nil
}

func parsePointFields(fields []string) (r3.Vector, bool) {
	if len(fields) < 3 {
		return r3.Vector{}, false
	}
	var v [3]float64
	for i := range fields {
		f, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return r3.Vector{}, false
		}
		if i < 3 {
			v[i] = f
		}
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, true
}

// FormatCoordinate renders a coordinate with the fewest digits that parse back to the same value.
// NaN and infinities are written as NaN, +Inf and -Inf.
func FormatCoordinate(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}

// WriteDatasetCSV writes one sample_id,class,point_id,x,y,z row per point, samples in dataset order
func WriteDatasetCSV(w stdio.Writer, ds *data.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DatasetCSVHeader); err != nil {
		return err
	}

	row := make([]string, len(DatasetCSVHeader))
	for i, cloud := range ds.Clouds {
		row[0] = strconv.Itoa(i)
		row[1] = ds.ClassName(i)
		for j, p := range cloud {
			row[2] = strconv.Itoa(j)
			row[3] = FormatCoordinate(p.X)
			row[4] = FormatCoordinate(p.Y)
			row[5] = FormatCoordinate(p.Z)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadDatasetCSV reads back the output of WriteDatasetCSV. Rows of a sample must be contiguous.
// Class indices follow the order in which class names first appear.
func ReadDatasetCSV(r stdio.Reader, id string) (*data.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(DatasetCSVHeader)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == stdio.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedDatasetCSV)
	}
	if err != nil {
		return nil, err
	}
	for i, h := range DatasetCSVHeader {
		if strings.TrimSpace(header[i]) != h {
			return nil, fmt.Errorf("%w: header column %d is %q, expected %q", ErrMalformedDatasetCSV, i, header[i], h)
		}
	}

	classIndex := make(map[string]int)
	classes := make([]string, 0)
	clouds := make([]data.Cloud, 0)
	labels := make([]int, 0)
	currentSample := ""

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == stdio.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedDatasetCSV, line, err)
		}

		p, ok := parsePointFields(record[3:])
		if !ok {
			return nil, fmt.Errorf("%w: line %d: bad coordinates %v", ErrMalformedDatasetCSV, line, record[3:])
		}

		class := record[1]
		if _, found := classIndex[class]; !found {
			classIndex[class] = len(classes)
			classes = append(classes, class)
		}

		if len(clouds) == 0 || record[0] != currentSample {
			currentSample = record[0]
			clouds = append(clouds, make(data.Cloud, 0))
			labels = append(labels, classIndex[class])
		}
		clouds[len(clouds)-1] = append(clouds[len(clouds)-1], p)
	}

	ds := data.NewDataset(id, classes, 0)
	for i := range clouds {
		ds.Append(clouds[i], labels[i])
	}
	return ds, nil
}
