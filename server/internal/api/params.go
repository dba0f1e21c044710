package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/creditlens/creditscore/pkg/types"
	"github.com/creditlens/creditscore/server/internal/scorer"
)

// requiredFields lists the request fields in contract order.
var requiredFields = [...]string{
	types.FieldMonthlyRevenue,
	types.FieldMonthlyTransactions,
	types.FieldBusinessAge,
}

// parseInput runs the validation pipeline on r and returns the coerced input.
// The method is checked by the caller.
func parseInput(w http.ResponseWriter, r *http.Request, maxBody int64) (scorer.Input, error) {
	obj, err := decodeObject(w, r, maxBody)
	if err != nil {
		return scorer.Input{}, err
	}

	var missing []string
	for _, f := range requiredFields {
		if v, ok := obj[f]; !ok || v == nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return scorer.Input{}, missingParams(fmt.Errorf("absent: %s", strings.Join(missing, ", ")))
	}

	var vals [len(requiredFields)]float64
	for i, f := range requiredFields {
		v, err := toFloat(obj[f])
		if err != nil {
			return scorer.Input{}, invalidTypes(fmt.Errorf("%s: %w", f, err))
		}
		vals[i] = v
	}

	return scorer.Input{
		MonthlyRevenue:      vals[0],
		MonthlyTransactions: vals[1],
		BusinessAge:         vals[2],
	}, nil
}

// decodeObject reads the body as a single JSON object. An absent, empty,
// oversized, malformed or non-object body is reported as invalid JSON.
func decodeObject(w http.ResponseWriter, r *http.Request, maxBody int64) (map[string]any, error) {
	if r.Body == nil {
		return nil, invalidJSON(errors.New("no body"))
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return nil, invalidJSON(fmt.Errorf("read body: %w", err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, invalidJSON(errors.New("empty body"))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, invalidJSON(err)
	}
	if obj == nil {
		return nil, invalidJSON(errors.New("body is null"))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalidJSON(errors.New("trailing data after JSON object"))
	}
	return obj, nil
}

// toFloat coerces a decoded JSON value to float64. Numbers, booleans and
// numeric strings are accepted; NaN and every other type are not.
func toFloat(v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case json.Number:
		f, err = parseNumber(x.String())
	case string:
		f, err = parseFloat(strings.TrimSpace(x))
	case bool:
		if x {
			f = 1
		}
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) {
		return 0, errors.New("NaN is not a number")
	}
	return f, nil
}

// parseNumber parses a JSON number literal. Integer literals too large for
// float64 are rejected; exponent literals saturate like parseFloat.
func parseNumber(s string) (float64, error) {
	if !strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("integer %s: %w", s, err)
		}
		return f, nil
	}
	return parseFloat(s)
}

// parseFloat parses s, keeping the saturated value for out-of-range input.
func parseFloat(s string) (float64, error) {
	if strings.HasPrefix(strings.TrimLeft(s, "+-"), "0x") || strings.HasPrefix(strings.TrimLeft(s, "+-"), "0X") {
		return 0, fmt.Errorf("hex literal %q", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}
