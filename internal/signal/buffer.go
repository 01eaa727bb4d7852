package signal

// SampleBuffer es una FIFO de capacidad fija sobre un anillo.
// Al llegar a capacidad, cada Push descarta la muestra más vieja.
type SampleBuffer struct {
	data []float64
	head int // índice de la muestra más vieja
	n    int
}

// NewSampleBuffer crea un buffer lleno con capacity copias de fill.
func NewSampleBuffer(capacity int, fill float64) *SampleBuffer {
	b := &SampleBuffer{}
	b.Reset(capacity, fill)
	return b
}

// Reset descarta todo y rellena hasta la nueva capacidad con fill.
func (b *SampleBuffer) Reset(capacity int, fill float64) {
	if capacity < 0 {
		capacity = 0
	}
	if cap(b.data) >= capacity {
		b.data = b.data[:capacity]
	} else {
		b.data = make([]float64, capacity)
	}
	for i := range b.data {
		b.data[i] = fill
	}
	b.head = 0
	b.n = capacity
}

// Clear vacía el buffer sin cambiar la capacidad.
func (b *SampleBuffer) Clear() {
	b.head = 0
	b.n = 0
}

// Push agrega v; si el buffer está lleno descarta la muestra más vieja.
func (b *SampleBuffer) Push(v float64) {
	c := len(b.data)
	if c == 0 {
		return
	}
	if b.n < c {
		b.data[(b.head+b.n)%c] = v
		b.n++
		return
	}
	b.data[b.head] = v
	b.head = (b.head + 1) % c
}

// Len devuelve la cantidad de muestras guardadas.
func (b *SampleBuffer) Len() int { return b.n }

// Cap devuelve la capacidad fija (ancho en pixels).
func (b *SampleBuffer) Cap() int { return len(b.data) }

// At devuelve la i-ésima muestra, 0 = la más vieja.
func (b *SampleBuffer) At(i int) float64 {
	if i < 0 || i >= b.n {
		panic("signal: SampleBuffer index out of range")
	}
	return b.data[(b.head+i)%len(b.data)]
}

// Samples copia las muestras en orden (vieja → nueva) sobre dst[:0].
func (b *SampleBuffer) Samples(dst []float64) []float64 {
	dst = dst[:0]
	for i := 0; i < b.n; i++ {
		dst = append(dst, b.data[(b.head+i)%len(b.data)])
	}
	return dst
}

// Last devuelve la muestra más reciente.
func (b *SampleBuffer) Last() (float64, bool) {
	if b.n == 0 {
		return 0, false
	}
	return b.At(b.n - 1), true
}
