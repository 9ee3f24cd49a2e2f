package gridlayout

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// EncodedLayout is the wire form of a layout: each field holds a JSON
// document encoded as a string.
type EncodedLayout struct {
	ColVisible string `json:"grdColVisible"`
	ColOrder   string `json:"grdColOrder"`
	ColSize    string `json:"grdColSize"`
	Sort       string `json:"grdSort"`
}

// EncodeState serializes a layout into its four wire strings
func EncodeState(s LayoutState) (EncodedLayout, error) {
	visibility := s.Visibility
	if visibility == nil {
		visibility = map[string]bool{}
	}
	order := s.Order
	if order == nil {
		order = []string{}
	}
	sizes := s.Sizes
	if sizes == nil {
		sizes = map[string]int{}
	}
	sort := s.Sort
	if sort == nil {
		sort = []SortRule{}
	}

	var enc EncodedLayout
	var err error
	if enc.ColVisible, err = marshalString(visibility); err != nil {
		return EncodedLayout{}, fmt.Errorf("encode grdColVisible: %w", err)
	}
	if enc.ColOrder, err = marshalString(order); err != nil {
		return EncodedLayout{}, fmt.Errorf("encode grdColOrder: %w", err)
	}
	if enc.ColSize, err = marshalString(sizes); err != nil {
		return EncodedLayout{}, fmt.Errorf("encode grdColSize: %w", err)
	}
	if enc.Sort, err = marshalString(sort); err != nil {
		return EncodedLayout{}, fmt.Errorf("encode grdSort: %w", err)
	}
	return enc, nil
}

func marshalString(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeState parses the wire strings. Empty fields decode to empty values.
// Any malformed field fails the whole decode.
func DecodeState(e EncodedLayout) (LayoutState, error) {
	s := LayoutState{
		Visibility: map[string]bool{},
		Order:      []string{},
		Sizes:      map[string]int{},
		Sort:       []SortRule{},
	}
	if err := unmarshalField("grdColVisible", e.ColVisible, &s.Visibility); err != nil {
		return LayoutState{}, err
	}
	if err := unmarshalField("grdColOrder", e.ColOrder, &s.Order); err != nil {
		return LayoutState{}, err
	}
	if err := decodeSizes(e.ColSize, s.Sizes); err != nil {
		return LayoutState{}, err
	}
	sort, err := decodeSort(e.Sort)
	if err != nil {
		return LayoutState{}, err
	}
	s.Sort = sort
	return s, nil
}

func unmarshalField(name, raw string, dst any) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Column sizes come back from the browser as floats ("120.5").
func decodeSizes(raw string, dst map[string]int) error {
	if raw == "" {
		return nil
	}
	if !gjson.Valid(raw) {
		return fmt.Errorf("decode grdColSize: invalid JSON")
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return fmt.Errorf("decode grdColSize: expected object")
	}
	var bad string
	res.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			bad = key.String()
			return false
		}
		dst[key.String()] = int(value.Float() + 0.5)
		return true
	})
	if bad != "" {
		return fmt.Errorf("decode grdColSize: non-numeric width for %q", bad)
	}
	return nil
}

// Sort entries are {id, desc}; entries without an id are skipped.
func decodeSort(raw string) ([]SortRule, error) {
	rules := []SortRule{}
	if raw == "" {
		return rules, nil
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("decode grdSort: invalid JSON")
	}
	res := gjson.Parse(raw)
	if !res.IsArray() {
		return nil, fmt.Errorf("decode grdSort: expected array")
	}
	for _, item := range res.Array() {
		id := item.Get("id").String()
		if id == "" {
			continue
		}
		rules = append(rules, SortRule{ColumnID: id, Desc: item.Get("desc").Bool()})
	}
	return rules, nil
}
