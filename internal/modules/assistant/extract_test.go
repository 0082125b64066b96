package assistant

import (
	"testing"

	"ride-booking/internal/models"
)

func TestPatternExtractor(t *testing.T) {
	tests := []struct {
		in   string
		want Extraction
	}{
		{"I want to go from Colombo to Kandy", Extraction{"Colombo", "Kandy"}},
		{"FROM colombo fort TO Galle tomorrow at 9am", Extraction{"colombo fort", "Galle"}},
		{"from Negombo to Bandaranaike Airport, please", Extraction{"Negombo", "Bandaranaike Airport"}},
		{"Ride from Kandy to Nuwara Eliya for 3 people", Extraction{"Kandy", "Nuwara Eliya"}},
		{"pick me up from Galle and go to Matara", Extraction{"Galle", "Matara"}},
		{"pick me up at Mount Lavinia", Extraction{Pickup: "Mount Lavinia"}},
		{"I need to get to the airport in 2 hours", Extraction{Dropoff: "the airport"}},
		{"take me to Ella from Kandy", Extraction{"Kandy", "Ella"}},
		{"Hi there", Extraction{}},
		{"show me luxury options", Extraction{}},
	}
	var ex PatternExtractor
	for _, tt := range tests {
		if got := ex.Extract(tt.in); got != tt.want {
			t.Errorf("Extract(%q) = %+v; want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseConstraints(t *testing.T) {
	vocab := []string{"Air Conditioning", "GPS", "WiFi", "Child Seat", "Leather Seats"}

	c := parseConstraints("We are 5 people and need WiFi in an SUV", vocab)
	if c.Type == nil || *c.Type != models.VehicleSUV {
		t.Errorf("Type = %v; want SUV", c.Type)
	}
	if c.MinCapacity == nil || *c.MinCapacity != 5 {
		t.Errorf("MinCapacity = %v; want 5", c.MinCapacity)
	}
	if len(c.Features) != 1 || c.Features[0] != "WiFi" {
		t.Errorf("Features = %v; want [WiFi]", c.Features)
	}

	c = parseConstraints("something premium for two passengers with a baby seat and ac", vocab)
	if c.Type == nil || *c.Type != models.VehicleLuxury {
		t.Errorf("Type = %v; want Luxury", c.Type)
	}
	if c.MinCapacity == nil || *c.MinCapacity != 2 {
		t.Errorf("MinCapacity = %v; want 2", c.MinCapacity)
	}
	if len(c.Features) != 2 || c.Features[0] != "Air Conditioning" || c.Features[1] != "Child Seat" {
		t.Errorf("Features = %v; want [Air Conditioning Child Seat]", c.Features)
	}

	if c := parseConstraints("Hi there, I'm on the way to the academy", vocab); !c.Empty() {
		t.Errorf("constraints = %+v; want none", c)
	}
	if c := parseConstraints("0 seats", nil); c.MinCapacity != nil {
		t.Errorf("MinCapacity = %v; want nil for zero", *c.MinCapacity)
	}
}

func TestBlankFeatureLabels(t *testing.T) {
	vocab := featureVocabulary([]models.Vehicle{
		{ID: "A", Features: []string{"GPS", "", "  "}},
		{ID: "B", Features: []string{"gps", "WiFi"}},
	})
	if len(vocab) != 2 || vocab[0] != "GPS" || vocab[1] != "WiFi" {
		t.Errorf("featureVocabulary = %q; want [GPS WiFi]", vocab)
	}
	if containsWord(" show me options ", "") {
		t.Error("containsWord matched an empty phrase")
	}
	if !containsWord("gps please", "gps") {
		t.Error("containsWord missed a phrase at the start of the text")
	}
	if c := parseConstraints("show me options", []string{"", "GPS"}); !c.Empty() {
		t.Errorf("constraints = %+v; want none", c)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[float64]string{12.4: "12 min", 60: "1 h", 200: "3 h 20 min", 0: "0 min"}
	for in, want := range tests {
		if got := formatMinutes(in); got != want {
			t.Errorf("formatMinutes(%v) = %q; want %q", in, got, want)
		}
	}
}
