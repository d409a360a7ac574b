package clock

import "testing"

func TestFrames(t *testing.T) {
	testData := []struct {
		name string
		f    Frame
		want string
	}{
		{"time", timeFrame(Time{23, 59, 59}), "23:59"},
		{"leading zero", timeFrame(Time{7, 3, 0}), " 7:03"},
		{"midnight", timeFrame(Time{}), " 0:00"},
		{"edit hours lit", editFrame(Time{Hours: 16, Minutes: 51}, EditHours, true), "16:51"},
		{"edit hours dark", editFrame(Time{Hours: 16, Minutes: 51}, EditHours, false), "  :51"},
		{"edit minutes lit", editFrame(Time{Hours: 16, Minutes: 51}, EditMinutes, true), "16:51"},
		{"edit minutes dark", editFrame(Time{Hours: 16, Minutes: 51}, EditMinutes, false), "16:  "},
		{"dashes hours lit", dashFrame(EditHours, true), "--:--"},
		{"dashes hours dark", dashFrame(EditHours, false), "  :--"},
		{"dashes minutes dark", dashFrame(EditMinutes, false), "--:  "},
	}
	for _, test := range testData {
		t.Run(test.name, func(t *testing.T) {
			if got, want := test.f.String(), test.want; got != want {
				t.Errorf("frame:\n  got: %q\n want: %q", got, want)
			}
		})
	}
}

func TestDraw(t *testing.T) {
	r := newRecorder()
	if err := draw(r, timeFrame(Time{Hours: 8, Minutes: 15})); err != nil {
		t.Fatal(err)
	}
	if err := draw(r, dashFrame(EditMinutes, false)); err != nil {
		t.Fatal(err)
	}
	if got, want := r.String(), " 8:15|--:  "; got != want {
		t.Errorf("drawn frames:\n  got: %q\n want: %q", got, want)
	}
}
