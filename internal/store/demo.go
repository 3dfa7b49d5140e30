package store

import (
	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/courtside/academy-recommender/internal/model"
)

// demoNamespace keeps demo ids stable across restarts.
var demoNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("academy-recommender/demo"))

// DemoID derives the stable id of a named demo record.
func DemoID(name string) string {
	return uuid.NewSHA1(demoNamespace, []byte(name)).String()
}

var (
	madrid    = &model.GeoPoint{Lat: 40.4168, Lon: -3.7038}
	barcelona = &model.GeoPoint{Lat: 41.3874, Lon: 2.1686}
	valencia  = &model.GeoPoint{Lat: 39.4699, Lon: -0.3763}
	sevilla   = &model.GeoPoint{Lat: 37.3891, Lon: -5.9845}
	paris     = &model.GeoPoint{Lat: 48.8566, Lon: 2.3522}
	roma      = &model.GeoPoint{Lat: 41.9028, Lon: 12.4964}
)

// SeedDemo fills m with the guest-mode dataset. Tournament dates are placed
// relative to today so the demo never goes stale.
func SeedDemo(m *Memory, today civil.Date) {
	players := []model.PlayerProfile{
		{
			ID: DemoID("player/lucia"), Name: "Lucía Fernández",
			Category: model.CategoryU16, Rating: 8.2,
			PreferredSurfaces: []model.Surface{model.SurfaceClay},
			HomeLocation:      "Madrid, Spain", Home: madrid,
			TravelWillingness: model.TravelNational,
		},
		{
			ID: DemoID("player/marc"), Name: "Marc Puig",
			Category: model.CategoryU14, Rating: 5.1,
			PreferredSurfaces: []model.Surface{model.SurfaceHard, model.SurfaceIndoor},
			HomeLocation:      "Barcelona, Spain", Home: barcelona,
			TravelWillingness: model.TravelLocal,
		},
		{
			ID: DemoID("player/elena"), Name: "Elena Ruiz",
			Category: model.CategoryU18, Rating: 11.8,
			PreferredSurfaces: []model.Surface{model.SurfaceClay, model.SurfaceHard},
			HomeLocation:      "Valencia, Spain", Home: valencia,
			TravelWillingness: model.TravelInternational,
		},
		{
			ID: DemoID("player/guest"), Name: "Guest Player",
			Category: model.CategoryAdults,
		},
	}
	for _, p := range players {
		m.PutPlayer(p)
	}

	type demoTournament struct {
		key      string
		name     string
		offset   int
		days     int
		category model.Category
		typ      model.TournamentType
		surface  model.Surface
		location string
		coords   *model.GeoPoint
	}
	tournaments := []demoTournament{
		{"madrid-u16-open", "Madrid U16 Open", 10, 3, model.CategoryU16, model.TypeNational, model.SurfaceClay, "Madrid, Spain", madrid},
		{"copa-del-sol", "Copa del Sol U16", 24, 5, model.CategoryU16, model.TypeNational, model.SurfaceHard, "Sevilla, Spain", sevilla},
		{"barcelona-junior-cup", "Barcelona Junior Cup", 17, 4, model.CategoryU14, model.TypeProximity, model.SurfaceHard, "Barcelona, Spain", barcelona},
		{"valencia-u18-masters", "Valencia U18 Masters", 31, 6, model.CategoryU18, model.TypeNational, model.SurfaceClay, "Valencia, Spain", valencia},
		{"tennis-europe-paris", "Tennis Europe Paris U16", 45, 7, model.CategoryU16, model.TypeInternational, model.SurfaceClay, "Paris, France", paris},
		{"itf-roma-u18", "ITF Junior Roma", 52, 7, model.CategoryU18, model.TypeInternational, model.SurfaceClay, "Roma, Italy", roma},
		{"madrid-club-league", "Madrid Club League", 5, 2, model.CategoryAdults, model.TypeProximity, model.SurfaceHard, "Madrid, Spain", madrid},
		{"barcelona-indoor-u14", "Barcelona Indoor U14", 60, 3, model.CategoryU14, model.TypeProximity, model.SurfaceIndoor, "Barcelona, Spain", barcelona},
		{"spring-u18-nationals", "U18 National Championships", 75, 8, model.CategoryU18, model.TypeNational, model.SurfaceHard, "Madrid, Spain", madrid},
		{"autumn-u16-classic", "Autumn U16 Classic", -20, 3, model.CategoryU16, model.TypeNational, model.SurfaceClay, "Madrid, Spain", madrid},
	}
	for _, t := range tournaments {
		start := today.AddDays(t.offset)
		m.PutTournament(model.TournamentCandidate{
			ID:          DemoID("tournament/" + t.key),
			Name:        t.name,
			StartDate:   start,
			EndDate:     start.AddDays(t.days - 1),
			Category:    t.category,
			Type:        t.typ,
			Location:    t.location,
			Coordinates: t.coords,
			Surface:     t.surface,
		})
	}

	m.AddBusy(DemoID("player/lucia"),
		model.Interval{Start: today.AddDays(23), End: today.AddDays(26)},
		model.Interval{Start: today.AddDays(90), End: today.AddDays(97)},
	)
	m.AddBusy(DemoID("player/elena"),
		model.Interval{Start: today.AddDays(50), End: today.AddDays(53)},
	)
}
