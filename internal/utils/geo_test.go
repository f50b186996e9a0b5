package utils

import (
	"math"
	"testing"

	"greenwatch/internal/models"
)

func TestMapsLink(t *testing.T) {
	link := MapsLink(models.GeoPoint{Latitude: 46.7545, Longitude: 33.3726})
	want := "https://maps.google.com/?q=46.754500,33.372600"
	if link != want {
		t.Errorf("MapsLink = %q, want %q", link, want)
	}
}

func TestDistance(t *testing.T) {
	kyiv := models.GeoPoint{Latitude: 50.4501, Longitude: 30.5234}
	kherson := models.GeoPoint{Latitude: 46.6354, Longitude: 32.6169}

	got := Distance(kyiv, kherson)
	if math.Abs(got-450) > 20 {
		t.Errorf("Distance = %.1f km, expected roughly 450 km", got)
	}

	if d := Distance(kyiv, kyiv); d != 0 {
		t.Errorf("Distance to self = %v, want 0", d)
	}
}
