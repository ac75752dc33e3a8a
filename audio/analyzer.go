package audio

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/lixenwraith/soundbox/parameter"
)

// Decibel range mapped onto [0,1] spectrum magnitudes
const (
	minDecibels = -100.0
	maxDecibels = -30.0
)

// Analyzer taps the output mix and reports loudness and a smoothed spectrum
// Push runs on the audio goroutine; Volume and FrequencyData on the render goroutine
type Analyzer struct {
	mu sync.Mutex

	size   int
	ring   []float64
	pos    int
	volume float64

	fft       *fourier.FFT
	window    []float64
	work      []float64
	coeffs    []complex128
	smoothed  []float64
	out       []float64
	smoothing float64
}

// NewAnalyzer creates an analyzer over the last size mono samples; size should be a power of two
func NewAnalyzer(size int) *Analyzer {
	if size < 32 {
		size = parameter.AnalyzerSize
	}
	win := make([]float64, size)
	for i := range win {
		win[i] = 1
	}
	window.Hann(win)

	return &Analyzer{
		size:      size,
		ring:      make([]float64, size),
		fft:       fourier.NewFFT(size),
		window:    win,
		work:      make([]float64, size),
		coeffs:    make([]complex128, size/2+1),
		smoothed:  make([]float64, size/2),
		out:       make([]float64, size/2),
		smoothing: parameter.AnalyzerSmoothing,
	}
}

// Push records a block of output and updates the RMS volume
func (a *Analyzer) Push(samples [][2]float64) {
	if len(samples) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	var sum float64
	for _, s := range samples {
		m := (s[0] + s[1]) * 0.5
		sum += m * m
		a.ring[a.pos] = m
		a.pos = (a.pos + 1) % a.size
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	a.volume = math.Min(1, rms*parameter.AnalyzerVolumeGain)
}

// Volume returns the loudness of the last pushed block in [0,1]
func (a *Analyzer) Volume() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.volume
}

// FrequencyData returns size/2 magnitudes in [0,1], low frequencies first
// The returned slice is reused by the next call
func (a *Analyzer) FrequencyData() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < a.size; i++ {
		a.work[i] = a.ring[(a.pos+i)%a.size] * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.work)

	scale := 1.0 / float64(a.size)
	for i := range a.smoothed {
		mag := cmplxAbs(a.coeffs[i]) * scale
		a.smoothed[i] = a.smoothing*a.smoothed[i] + (1-a.smoothing)*mag

		db := minDecibels
		if a.smoothed[i] > 0 {
			db = 20 * math.Log10(a.smoothed[i])
		}
		v := (db - minDecibels) / (maxDecibels - minDecibels)
		a.out[i] = math.Max(0, math.Min(1, v))
	}
	return a.out
}

// Reset clears history, as after a device restart
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.ring)
	clear(a.smoothed)
	a.pos = 0
	a.volume = 0
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
