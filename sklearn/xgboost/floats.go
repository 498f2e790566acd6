package xgboost

import (
	"bytes"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/YuminosukeSato/scigo-xgb/pkg/errors"
)

// JSON has no literal for infinities or NaN, so non-finite values are written
// as the strings "+Inf", "-Inf" and "NaN". Finite values stay plain numbers.

// Float is a float64 whose JSON form survives non-finite values.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	return appendFloat(nil, float64(f), 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	v, err := parseFloat(data, 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Float32s is a float32 column whose JSON form survives non-finite values.
type Float32s []float32

// MarshalJSON implements json.Marshaler.
func (fs Float32s) MarshalJSON() ([]byte, error) {
	if fs == nil {
		return []byte("null"), nil
	}
	out := []byte{'['}
	for i, v := range fs {
		if i > 0 {
			out = append(out, ',')
		}
		out = appendFloat(out, float64(v), 32)
	}
	return append(out, ']'), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (fs *Float32s) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*fs = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "float32 column")
	}
	out := make(Float32s, len(raw))
	for i, r := range raw {
		v, err := parseFloat(r, 32)
		if err != nil {
			return errors.Wrapf(err, "float32 column element %d", i)
		}
		out[i] = float32(v)
	}
	*fs = out
	return nil
}

func appendFloat(dst []byte, v float64, bitSize int) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, `"NaN"`...)
	case math.IsInf(v, 1):
		return append(dst, `"+Inf"`...)
	case math.IsInf(v, -1):
		return append(dst, `"-Inf"`...)
	}
	return strconv.AppendFloat(dst, v, 'g', -1, bitSize)
}

func parseFloat(data []byte, bitSize int) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		switch string(data) {
		case `"NaN"`:
			return math.NaN(), nil
		case `"+Inf"`, `"Inf"`:
			return math.Inf(1), nil
		case `"-Inf"`:
			return math.Inf(-1), nil
		}
		return 0, errors.NewValidationError("float", "expected a number, \"+Inf\", \"-Inf\" or \"NaN\"", string(data))
	}
	v, err := strconv.ParseFloat(string(data), bitSize)
	if err != nil {
		return 0, errors.NewValidationError("float", err.Error(), string(data))
	}
	return v, nil
}

// headerJSON mirrors Header with a non-finite-safe base score.
type headerJSON struct {
	BaseScore          Float  `json:"base_score"`
	NumFeatures        uint32 `json:"num_feature"`
	NumClass           int32  `json:"num_class"`
	ContainExtraAttrs  int32  `json:"contain_extra_attrs"`
	ContainEvalMetrics int32  `json:"contain_eval_metrics"`
	Objective          string `json:"objective"`
	Booster            string `json:"booster"`
}

// MarshalJSON implements json.Marshaler.
func (h Header) MarshalJSON() ([]byte, error) {
	return json.Marshal(headerJSON{
		BaseScore:          Float(h.BaseScore),
		NumFeatures:        h.NumFeatures,
		NumClass:           h.NumClass,
		ContainExtraAttrs:  h.ContainExtraAttrs,
		ContainEvalMetrics: h.ContainEvalMetrics,
		Objective:          h.Objective,
		Booster:            h.Booster,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Unknown fields are rejected.
func (h *Header) UnmarshalJSON(data []byte) error {
	var v headerJSON
	if err := decodeStrict(data, &v); err != nil {
		return errors.Wrap(err, "header")
	}
	*h = Header{
		BaseScore:          float32(v.BaseScore),
		NumFeatures:        v.NumFeatures,
		NumClass:           v.NumClass,
		ContainExtraAttrs:  v.ContainExtraAttrs,
		ContainEvalMetrics: v.ContainEvalMetrics,
		Objective:          v.Objective,
		Booster:            v.Booster,
	}
	return nil
}

// ensembleJSON mirrors Ensemble with a non-finite-safe base score.
type ensembleJSON struct {
	ID        uuid.UUID     `json:"id"`
	Header    Header        `json:"header"`
	Params    BoosterParams `json:"params"`
	Metadata  Metadata      `json:"metadata"`
	BaseScore Float         `json:"base_score"`
}

// MarshalJSON implements json.Marshaler. Trees are not part of the encoding;
// see Snapshot.
func (e Ensemble) MarshalJSON() ([]byte, error) {
	return json.Marshal(ensembleJSON{
		ID:        e.ID,
		Header:    e.Header,
		Params:    e.Params,
		Metadata:  e.Metadata,
		BaseScore: Float(e.BaseScore),
	})
}

// UnmarshalJSON implements json.Unmarshaler. Unknown fields are rejected.
func (e *Ensemble) UnmarshalJSON(data []byte) error {
	var v ensembleJSON
	if err := decodeStrict(data, &v); err != nil {
		return errors.Wrap(err, "ensemble")
	}
	e.ID = v.ID
	e.Header = v.Header
	e.Params = v.Params
	e.Metadata = v.Metadata
	e.BaseScore = float64(v.BaseScore)
	return nil
}

func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
