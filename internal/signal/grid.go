package signal

// DefaultGridStep son los pixels por cuadro menor del papel ECG.
const DefaultGridStep = 20

// GridLines son las posiciones de las líneas del papel ECG.
// Las mayores caen cada 5 cuadros menores.
type GridLines struct {
	MinorX, MinorY []int
	MajorX, MajorY []int
}

// Grid calcula las líneas para una superficie width x height.
func Grid(width, height, step int) GridLines {
	var g GridLines
	if width <= 0 || height <= 0 {
		return g
	}
	if step <= 0 {
		step = DefaultGridStep
	}
	for x := 0; x < width; x += step {
		g.MinorX = append(g.MinorX, x)
	}
	for y := 0; y < height; y += step {
		g.MinorY = append(g.MinorY, y)
	}
	for x := 0; x < width; x += step * 5 {
		g.MajorX = append(g.MajorX, x)
	}
	for y := 0; y < height; y += step * 5 {
		g.MajorY = append(g.MajorY, y)
	}
	return g
}
