package tui

// sparklineChars maps values 0..7 to Unicode block elements ▁▂▃▄▅▆▇█.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer is a fixed-capacity circular buffer of samples.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer{data: make([]float64, capacity)}
}

// Push adds a sample, overwriting the oldest if full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Len returns the number of valid samples.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the most recent sample, or 0 if empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	idx := r.head - 1
	if idx < 0 {
		idx = len(r.data) - 1
	}
	return r.data[idx]
}

// Max returns the largest retained sample, or 0 if empty.
func (r *RingBuffer) Max() float64 {
	var m float64
	for i, v := range r.Slice() {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Slice returns samples in chronological order (oldest first).
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	start := r.head - r.count
	if start < 0 {
		start += len(r.data)
	}
	for i := range r.count {
		result[i] = r.data[(start+i)%len(r.data)]
	}
	return result
}

// Resize changes the capacity, preserving the most recent samples that fit.
func (r *RingBuffer) Resize(newCap int) {
	if newCap <= 0 {
		newCap = 1
	}
	if newCap == len(r.data) {
		return
	}
	old := r.Slice()
	r.data = make([]float64, newCap)
	r.head = 0
	r.count = 0
	start := 0
	if len(old) > newCap {
		start = len(old) - newCap
	}
	for _, v := range old[start:] {
		r.Push(v)
	}
}

// Reset clears all samples.
func (r *RingBuffer) Reset() {
	r.head = 0
	r.count = 0
}

// Normalize rescales values to 0..100 against their maximum. Pause times and
// heap sizes have no fixed ceiling, so charts plot them relative to the
// largest sample on screen.
func Normalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	var peak float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	out := make([]float64, len(values))
	if peak <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / peak * 100
	}
	return out
}

// RenderSparkline converts values (0..100) into a sparkline string using Unicode blocks.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		runes[i] = sparklineChars[level(v, 7)]
	}
	return string(runes)
}

// level maps a 0..100 value onto 0..steps, clamping out-of-range input.
func level(v float64, steps int) int {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	idx := int(v / 100.0 * float64(steps))
	if idx > steps {
		idx = steps
	}
	return idx
}

// brailleDots maps (col 0-1, row 0-3) to braille dot bits, U+2800 based.
var brailleDots = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// RenderBrailleChart plots values (0..100) as a braille dot chart of
// `rows` text rows by `width` columns, most recent sample on the right.
func RenderBrailleChart(values []float64, width, rows int) []string {
	if width <= 0 || rows <= 0 || len(values) == 0 {
		return nil
	}

	dotRows := rows * 4
	dotCols := width * 2

	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = make([]rune, width)
		for c := range grid[r] {
			grid[r][c] = 0x2800
		}
	}

	startIdx := 0
	if len(values) > dotCols {
		startIdx = len(values) - dotCols
	}
	offset := dotCols - min(len(values), dotCols)

	for i := startIdx; i < len(values); i++ {
		dotCol := (i - startIdx) + offset
		dotRow := dotRows - 1 - level(values[i], dotRows-1)

		charCol, subCol := dotCol/2, dotCol%2
		charRow, subRow := dotRow/4, dotRow%4
		if charCol < width && charRow >= 0 && charRow < rows {
			grid[charRow][charCol] |= brailleDots[subCol][subRow]
		}
	}

	result := make([]string, rows)
	for r := range grid {
		result[r] = string(grid[r])
	}
	return result
}
