package bdata

import (
	"sort"

	"github.com/52Jolynn/bindb/data"
	"github.com/52Jolynn/bindb/mod"
)

// Index is the loaded record set. It is never mutated after NewIndex returns.
type Index struct {
	records    []mod.Record
	exactMap   map[string]int
	similarMap map[string][]int
}

func NewIndex(records []mod.Record) *Index {
	idx := &Index{
		records:    records,
		exactMap:   make(map[string]int, len(records)),
		similarMap: make(map[string][]int, 1024),
	}
	for i, r := range records {
		bin := r.BIN()
		//只保留第一条
		if _, ok := idx.exactMap[bin]; !ok {
			idx.exactMap[bin] = i
		}
		key, ok := prefixOf(bin, data.SimilarPrefixLength)
		if !ok {
			continue
		}
		if positions := idx.similarMap[key]; len(positions) < data.SimilarLimit {
			idx.similarMap[key] = append(positions, i)
		}
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.records)
}

// Exact returns the first record whose BIN equals prefix.
func (idx *Index) Exact(prefix string) (*mod.Record, bool) {
	if i, ok := idx.exactMap[prefix]; ok {
		r := idx.records[i]
		return &r, true
	}
	return nil, false
}

// Similar returns up to limit records, in file order, whose BIN shares the
// first four characters with prefix.
func (idx *Index) Similar(prefix string, limit int) []mod.Record {
	key, ok := prefixOf(prefix, data.SimilarPrefixLength)
	if !ok || limit <= 0 {
		return nil
	}
	positions := idx.similarMap[key]
	if len(positions) > limit {
		positions = positions[:limit]
	}
	if len(positions) == 0 {
		return nil
	}
	result := make([]mod.Record, 0, len(positions))
	for _, i := range positions {
		result = append(result, idx.records[i])
	}
	return result
}

// All returns every record whose BIN equals bin, in file order.
func (idx *Index) All(bin string) []mod.Record {
	var result []mod.Record
	for _, r := range idx.records {
		if r.BIN() == bin {
			result = append(result, r)
		}
	}
	return result
}

// Probe looks up each bin as given, without normalizing it.
func (idx *Index) Probe(bins []string) []mod.BulkItem {
	result := make([]mod.BulkItem, 0, len(bins))
	for _, bin := range bins {
		result = append(result, idx.item(bin))
	}
	return result
}

func (idx *Index) item(bin string) mod.BulkItem {
	item := mod.BulkItem{BIN: bin}
	if record, ok := idx.Exact(bin); ok {
		item.Found = true
		item.Data = record
	}
	return item
}

// Sample returns the BINs of the first n records.
func (idx *Index) Sample(n int) []string {
	if n > len(idx.records) {
		n = len(idx.records)
	}
	result := make([]string, 0, n)
	for _, r := range idx.records[:n] {
		result = append(result, r.BIN())
	}
	return result
}

// Stats counts records per brand and returns the topN countries by count,
// ties kept in first-encountered order.
func (idx *Index) Stats(topN int) mod.Stats {
	brands := make(map[string]int, 64)
	countries := make(map[string]int, 256)
	countryOrder := make([]string, 0, 256)
	for _, r := range idx.records {
		brands[group(r.Brand())] += 1

		country := group(r.CountryName())
		if _, ok := countries[country]; !ok {
			countryOrder = append(countryOrder, country)
		}
		countries[country] += 1
	}

	sort.SliceStable(countryOrder, func(i, j int) bool {
		return countries[countryOrder[i]] > countries[countryOrder[j]]
	})
	if len(countryOrder) > topN {
		countryOrder = countryOrder[:topN]
	}
	top := make([]mod.CountryCount, 0, len(countryOrder))
	for _, country := range countryOrder {
		top = append(top, mod.CountryCount{Country: country, Count: countries[country]})
	}

	return mod.Stats{
		TotalRecords: len(idx.records),
		Brands:       brands,
		TopCountries: top,
	}
}

// prefixOf returns the first n characters of value.
func prefixOf(value string, n int) (string, bool) {
	runes := []rune(value)
	if len(runes) < n {
		return "", false
	}
	return string(runes[:n]), true
}

func group(value string) string {
	if value == "" {
		return data.UnknownGroup
	}
	return value
}
