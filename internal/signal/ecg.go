package signal

import "math"

// Band identifica el segmento del ciclo cardíaco al que pertenece una fase.
type Band int

const (
	BandBaseline Band = iota
	BandP
	BandPR
	BandQRS
	BandST
	BandT
	BandU
)

var bandNames = [...]string{"baseline", "P", "PR", "QRS", "ST", "T", "U"}

func (b Band) String() string {
	if b < 0 || int(b) >= len(bandNames) {
		return "unknown"
	}
	return bandNames[b]
}

// bandSpan es un tramo [start, end) de la fase normalizada.
type bandSpan struct {
	band       Band
	start, end float64
}

// orden ascendente; la primera coincidencia gana
var bands = [...]bandSpan{
	{BandP, 0.08, 0.18},
	{BandPR, 0.18, 0.28},
	{BandQRS, 0.28, 0.38},
	{BandST, 0.38, 0.50},
	{BandT, 0.50, 0.70},
	{BandU, 0.70, 0.80},
}

// Phase normaliza t dentro del ciclo cardíaco: (t mod cycle) / cycle, en [0,1).
func Phase(t, cycleDuration float64) float64 {
	if cycleDuration <= 0 || math.IsNaN(cycleDuration) || math.IsInf(cycleDuration, 0) {
		return 0
	}
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	p := math.Mod(t, cycleDuration) / cycleDuration
	if p >= 1 {
		p = 0
	}
	return p
}

// BandAt devuelve la banda que contiene p y la fase local u ∈ [0,1) dentro de ella.
func BandAt(p float64) (Band, float64) {
	for _, b := range bands {
		if p >= b.start && p < b.end {
			return b.band, (p - b.start) / (b.end - b.start)
		}
	}
	return BandBaseline, 0
}

// BandValue es la forma PQRST sin escalar para una fase p.
// Positivo = hacia arriba en pantalla.
func BandValue(p float64) float64 {
	band, u := BandAt(p)
	switch band {
	case BandP:
		return 0.15 * math.Exp(-math.Pow((u-0.5)*5, 2))
	case BandQRS:
		return qrs(u)
	case BandST:
		return -0.05
	case BandT:
		return 0.3 * math.Exp(-math.Pow((u-0.5)*3, 2))
	case BandU:
		return 0.05 * math.Sin(u*math.Pi)
	default:
		// PR y línea isoeléctrica
		return 0
	}
}

func qrs(u float64) float64 {
	switch {
	case u < 0.2:
		return -0.1 * math.Sin(u*math.Pi/0.2)
	case u < 0.5:
		return 1.0 * math.Sin((u-0.2)*math.Pi/0.3)
	case u < 0.8:
		return -0.25 * math.Sin((u-0.5)*math.Pi/0.3)
	default:
		return 0
	}
}

// Value evalúa la forma de onda en el instante t con la duración de ciclo dada.
func Value(t, cycleDuration float64) float64 {
	return BandValue(Phase(t, cycleDuration))
}

// Displacement convierte el valor de banda a coordenada vertical (pixels,
// origen arriba). La línea base es height/2 y el valor 1.0 equivale a
// un cuarto de la altura.
func Displacement(t, cycleDuration, amplitudeScale, height float64) float64 {
	return ToPixels(Value(t, cycleDuration), amplitudeScale, height)
}

// ToPixels aplica la escala vertical a un valor de banda ya calculado.
func ToPixels(v, amplitudeScale, height float64) float64 {
	return height/2 - v*height*0.25*amplitudeScale
}

// Noise es ruido determinista barato en [-amp, amp] derivado de la fase.
func Noise(p, amp float64) float64 {
	if amp == 0 {
		return 0
	}
	return amp * (2*fract(math.Sin(12345.678*p)*9876.543) - 1)
}

func fract(x float64) float64 { return x - math.Floor(x) }
