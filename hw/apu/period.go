package apu

import (
	"fmt"
	"math"

	"nsfplay/hw/hwdefs"
)

// NumKeys is the number of keys of a piano keyboard, from A0 to C8.
const NumKeys = 88

var noteNames = [12]string{"A", "A#", "B", "C", "C#", "D", "D#", "E", "F", "F#", "G", "G#"}

// NoteFrequency returns the equal-tempered frequency of a piano key, key 0
// being A0 (27.5Hz) and key 48 being A4 (440Hz).
func NoteFrequency(key int) float64 {
	return 27.5 * math.Pow(2, float64(key)/12)
}

// NoteName returns the scientific pitch notation of a piano key (A0, A#0...).
func NoteName(key int) string {
	return fmt.Sprintf("%s%d", noteNames[key%12], (key+9)/12)
}

// PulsePeriod returns the 11-bit square timer period producing the tone
// closest to freq, or false if freq can't be produced by a square channel.
func PulsePeriod(freq float64, region hwdefs.Region) (uint16, bool) {
	return timerPeriod(freq, 16, region)
}

// TrianglePeriod returns the 11-bit triangle timer period producing the tone
// closest to freq, or false if freq can't be produced by the triangle
// channel.
func TrianglePeriod(freq float64, region hwdefs.Region) (uint16, bool) {
	return timerPeriod(freq, 32, region)
}

func timerPeriod(freq float64, steps float64, region hwdefs.Region) (uint16, bool) {
	if freq <= 0 {
		return 0, false
	}
	p := math.Round(float64(region.ClockRate())/(steps*freq)) - 1
	if p < 0 || p > 0x7FF {
		return 0, false
	}
	return uint16(p), true
}

// Note associates a piano key with the timer periods that play it.
type Note struct {
	Key      int
	Name     string
	Freq     float64
	Pulse    uint16 // 0 if out of range
	Triangle uint16 // 0 if out of range
}

// PeriodTable returns the square and triangle periods of all 88 piano keys.
func PeriodTable(region hwdefs.Region) [NumKeys]Note {
	var notes [NumKeys]Note
	for key := range NumKeys {
		freq := NoteFrequency(key)
		pulse, _ := PulsePeriod(freq, region)
		tri, _ := TrianglePeriod(freq, region)
		notes[key] = Note{
			Key:      key,
			Name:     NoteName(key),
			Freq:     freq,
			Pulse:    pulse,
			Triangle: tri,
		}
	}
	return notes
}
