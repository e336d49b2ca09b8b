package axis

import (
	"math"
	"testing"
)

func TestNormalizeCenter(t *testing.T) {
	tests := []struct {
		name string
		cal  Calibration
	}{
		{"Symmetric", Calibration{0, 512, 1023}},
		{"OffCenterLow", Calibration{3, 200, 1021}},
		{"OffCenterHigh", Calibration{6, 900, 1019}},
		{"DeviceDefaults", Calibration{2, 513, 1022}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cal.Normalize(tt.cal.Center)
			if got != 0 {
				t.Errorf("Normalize(center)=%v, expected 0", got)
			}
		})
	}
}

func TestNormalizeMonotonic(t *testing.T) {
	cal := Calibration{Low: 3, Center: 520, High: 1021}

	prev := cal.Normalize(cal.Low)
	for raw := cal.Low + 1; raw <= cal.High; raw++ {
		got := cal.Normalize(raw)
		// output is sign-inverted, so it decreases as the raw sample grows
		if got > prev {
			t.Fatalf("Normalize(%d)=%v increased from Normalize(%d)=%v", raw, got, raw-1, prev)
		}
		prev = got
	}
}

func TestNormalizeExtremes(t *testing.T) {
	cal := Calibration{Low: 0, Center: 512, High: 1023}

	if got := cal.Normalize(0); got != 1 {
		t.Errorf("Normalize(low)=%v, expected 1", got)
	}
	if got := cal.Normalize(1023); math.Abs(got+1) > 1e-9 {
		t.Errorf("Normalize(high)=%v, expected -1", got)
	}
}

func TestNormalizeOvershoot(t *testing.T) {
	// samples beyond the calibrated ends pass through without clamping
	cal := Calibration{Low: 100, Center: 512, High: 900}

	if got := cal.Normalize(50); got <= 1 {
		t.Errorf("Normalize(50)=%v, expected value above 1", got)
	}
	if got := cal.Normalize(1000); got >= -1 {
		t.Errorf("Normalize(1000)=%v, expected value below -1", got)
	}
}

func TestNormalizeZeroSpan(t *testing.T) {
	tests := []struct {
		name string
		cal  Calibration
		raw  int
	}{
		{"LowEqualsCenter", Calibration{512, 512, 1023}, 300},
		{"CenterEqualsHigh", Calibration{0, 512, 512}, 700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cal.Normalize(tt.raw); got != 0 {
				t.Errorf("Normalize(%d)=%v, expected 0 for degenerate calibration", tt.raw, got)
			}
		})
	}
}

func TestBankRecenter(t *testing.T) {
	bank := Bank{
		{Low: 3, Center: 520, High: 1021},
		{Low: 6, Center: 498, High: 1019},
		{Low: 3, Center: 530, High: 1021},
		{Low: 2, Center: 513, High: 1022},
	}

	bank.Recenter([4]int{600, 500, 531, 512})

	if bank[0].Center != 600 {
		t.Errorf("center=%d, expected 600", bank[0].Center)
	}
	if bank[0].Low != 3 || bank[0].High != 1021 {
		t.Errorf("low/high changed: %+v", bank[0])
	}
	if got := bank[0].Normalize(600); got != 0 {
		t.Errorf("Normalize(600)=%v after recenter, expected 0", got)
	}
}

func TestBankNormalize(t *testing.T) {
	bank := Bank{
		{0, 512, 1023},
		{0, 512, 1023},
		{0, 512, 1023},
		{0, 512, 1023},
	}

	norm := bank.Normalize([4]int{512, 0, 1023, 512})
	if norm[0] != 0 || norm[3] != 0 {
		t.Errorf("centered channels not 0: %v", norm)
	}
	if norm[1] != 1 {
		t.Errorf("norm[1]=%v, expected 1", norm[1])
	}
	if math.Abs(norm[2]+1) > 1e-9 {
		t.Errorf("norm[2]=%v, expected -1", norm[2])
	}
}

func TestJoystickValue(t *testing.T) {
	tests := []struct {
		name     string
		n        float64
		expected int
	}{
		{"FullNegative", -1, 0},
		{"Center", 0, 511},
		{"FullPositive", 1, 1023},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoystickValue(tt.n); got != tt.expected {
				t.Errorf("JoystickValue(%v)=%d, expected %d", tt.n, got, tt.expected)
			}
		})
	}
}
