package stream

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// EncodeWave empaqueta muestras como float32 little-endian (4 bytes c/u).
func EncodeWave(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// DecodeWave es la inversa de EncodeWave; agrega sobre dst.
func DecodeWave(data []byte, dst []float32) ([]float32, error) {
	if len(data)%4 != 0 {
		return dst, fmt.Errorf("wave payload of %d bytes is not a multiple of 4", len(data))
	}
	for i := 0; i < len(data); i += 4 {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(data[i:])))
	}
	return dst, nil
}

// ParamMsg viaja por el subject de parámetros como JSON.
type ParamMsg struct {
	Subject   string  `json:"subject"`
	Source    string  `json:"source,omitempty"`
	Ts        int64   `json:"ts"`
	HR        int     `json:"hr"`
	HRExact   float64 `json:"hr_exact,omitempty"`
	Amplitude float64 `json:"amplitude,omitempty"`
	Detected  bool    `json:"detected,omitempty"`
}

func (p ParamMsg) Marshal() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}
	return b, nil
}

func DecodeParams(data []byte) (ParamMsg, error) {
	var p ParamMsg
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode params: %w", err)
	}
	return p, nil
}
