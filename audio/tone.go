package audio

import "math"

// Sine returns n samples of a sine wave of frequency freq, sampled at
// sampleRate Hz, with the given peak amplitude in [0, 1].
func Sine(freq float64, sampleRate, n int, amp float64) []int16 {
	samples := make([]int16, n)
	step := 2 * math.Pi * freq / float64(sampleRate)
	for i := range samples {
		samples[i] = int16(math.Round(amp * math.MaxInt16 * math.Sin(step*float64(i))))
	}
	return samples
}
