package mod

import (
	"encoding/json"

	"github.com/52Jolynn/bindb/data"
)

// Record is one row of the reference table. Fields holds every column of the
// row keyed by its header name, the named columns are read from it.
type Record struct {
	Fields map[string]string
}

func NewRecord(header, values []string) Record {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(values) {
			fields[name] = values[i]
		}
	}
	return Record{Fields: fields}
}

func (r Record) BIN() string         { return r.Fields[data.ColumnBIN] }
func (r Record) Brand() string       { return r.Fields[data.ColumnBrand] }
func (r Record) Issuer() string      { return r.Fields[data.ColumnIssuer] }
func (r Record) CountryName() string { return r.Fields[data.ColumnCountryName] }

func (r Record) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Fields)
}

type LookupResult struct {
	Prefix  string
	Record  *Record
	Similar []Record
}

func (l LookupResult) Found() bool {
	return l.Record != nil
}

// 相似BIN列表
func (l LookupResult) SimilarBINs() []string {
	if len(l.Similar) == 0 {
		return nil
	}
	result := make([]string, 0, len(l.Similar))
	for _, r := range l.Similar {
		result = append(result, r.BIN())
	}
	return result
}

type BulkItem struct {
	BIN     string  `json:"bin"`
	Found   bool    `json:"found"`
	Data    *Record `json:"data"`
	Message string  `json:"message,omitempty"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type Stats struct {
	TotalRecords int            `json:"totalRecords"`
	DataLoaded   bool           `json:"dataLoaded"`
	Brands       map[string]int `json:"brands"`
	TopCountries []CountryCount `json:"topCountries"`
}

type Health struct {
	Status       string   `json:"status"`
	DataLoaded   bool     `json:"dataLoaded"`
	TotalRecords int      `json:"totalRecords"`
	SkippedRows  int      `json:"skippedRows"`
	Uptime       float64  `json:"uptime"` //秒
	SampleBINs   []string `json:"sampleBINs"`
	Error        string   `json:"error,omitempty"`
}

const (
	HealthStatusOK       = "ok"
	HealthStatusLoading  = "loading"
	HealthStatusDegraded = "degraded"
)
