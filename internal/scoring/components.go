package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/courtside/academy-recommender/internal/model"
)

// --------------------------------------------------------------------------
// Category
// --------------------------------------------------------------------------

func categoryFit(p Policy, in *Input) Component {
	c := Component{Name: NameCategory, Max: p.Weights.Category}
	player, tournament := in.Player.Category, in.Tournament.Category
	pr, tr := player.Rank(), tournament.Rank()

	switch {
	case pr < 0:
		c.Value = c.Max * p.NeutralCredit
		c.Reason = "player category unknown"
	case tr < 0:
		c.Value = c.Max * p.NeutralCredit
		c.Reason = "tournament category unknown"
	case tr == pr:
		c.Value = c.Max
	case tr == pr+1:
		c.Value = c.Max * p.PlayingUpCredit
		c.Reason = fmt.Sprintf("playing up from %s to %s", player, tournament)
	case tr < pr:
		c.Reason = fmt.Sprintf("%s player is not eligible for %s", player, tournament)
	default:
		c.Reason = fmt.Sprintf("%s is more than one bracket above %s", tournament, player)
	}
	return c
}

// --------------------------------------------------------------------------
// Surface
// --------------------------------------------------------------------------

func surfaceFit(p Policy, in *Input) Component {
	c := Component{Name: NameSurface, Max: p.Weights.Surface}
	surface := in.Tournament.Surface

	switch {
	case surface == "":
		c.Value = c.Max
	case len(in.Player.PreferredSurfaces) == 0:
		c.Value = c.Max * p.NeutralCredit
		c.Reason = "no surface preference"
	case in.Player.PrefersSurface(surface):
		c.Value = c.Max
	default:
		c.Value = c.Max * p.SurfaceMismatchCredit
		c.Reason = fmt.Sprintf("%s is not a preferred surface", surface)
	}
	return c
}

// --------------------------------------------------------------------------
// Type / prestige
// --------------------------------------------------------------------------

// playerLevel maps a rating onto the tournament tier scale.
func playerLevel(p Policy, rating float64) int {
	switch {
	case rating >= p.InternationalRating:
		return 2
	case rating >= p.NationalRating:
		return 1
	default:
		return 0
	}
}

var levelNames = [3]string{"proximity", "national", "international"}

func typeFit(p Policy, in *Input) Component {
	c := Component{Name: NameType, Max: p.Weights.Type}
	tier := in.Tournament.Type.Tier()

	switch {
	case tier < 0:
		c.Value = c.Max * p.NeutralCredit
		c.Reason = "tournament type unknown"
	case in.Player.Rating <= 0:
		c.Value = c.Max * p.NeutralCredit
		c.Reason = "player unrated"
	default:
		level := playerLevel(p, in.Player.Rating)
		diff := tier - level
		if diff < 0 {
			diff = -diff
		}
		c.Value = c.Max * p.TypeTierCredit[diff]
		if diff > 0 {
			c.Reason = fmt.Sprintf("%s tier for a %s-level player (rating %.1f)",
				in.Tournament.Type, levelNames[level], in.Player.Rating)
		}
	}
	return c
}

// --------------------------------------------------------------------------
// Proximity / travel
// --------------------------------------------------------------------------

func proximityFit(p Policy, in *Input) Component {
	c := Component{Name: NameProximity, Max: p.Weights.Proximity}
	player, t := in.Player, in.Tournament

	hasHome := player.HomeLocation != "" || player.Home != nil
	hasVenue := t.Location != "" || t.Coordinates != nil
	switch {
	case !hasHome:
		c.Value = c.Max * p.NeutralCredit
		c.Reason = "home location unknown"
		return c
	case !hasVenue:
		c.Value = c.Max * p.NeutralCredit
		c.Reason = "tournament location unknown"
		return c
	}

	homeCity, homeCountry := splitLocation(player.HomeLocation)
	venueCity, venueCountry := splitLocation(t.Location)
	if homeCity != "" && homeCity == venueCity {
		c.Value = c.Max
		return c
	}

	reach := player.TravelWillingness.Reach()
	if reach < 0 {
		c.Value = c.Max * p.NeutralCredit
		c.Reason = "travel willingness unknown"
		return c
	}

	if player.Home != nil && t.Coordinates != nil {
		radius := p.TravelRadiusKm[player.TravelWillingness]
		d := distanceKm(*player.Home, *t.Coordinates)
		if radius <= 0 || d <= radius {
			c.Value = c.Max
			return c
		}
		c.Value = c.Max * radius / d
		c.Reason = fmt.Sprintf("%.0f km away, beyond %s travel radius of %.0f km",
			d, player.TravelWillingness, radius)
		return c
	}

	class := distanceClass(homeCountry, venueCountry, t.Type)
	if class <= reach {
		c.Value = c.Max
		return c
	}
	c.Value = c.Max * math.Pow(p.ProximityDecay, float64(class-reach))
	c.Reason = fmt.Sprintf("%s is beyond %s travel", t.Location, player.TravelWillingness)
	return c
}

// distanceClass approximates distance without geocoding: 1 within the same
// country, 2 abroad. When either country is unknown the tournament type
// stands in for distance.
func distanceClass(homeCountry, venueCountry string, typ model.TournamentType) int {
	if homeCountry != "" && venueCountry != "" {
		if homeCountry == venueCountry {
			return 1
		}
		return 2
	}
	switch typ {
	case model.TypeProximity:
		return 0
	case model.TypeInternational:
		return 2
	default:
		return 1
	}
}

// splitLocation lower-cases "City, Region, Country" into city and country.
func splitLocation(loc string) (city, country string) {
	parts := strings.Split(strings.ToLower(loc), ",")
	city = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		country = strings.TrimSpace(parts[len(parts)-1])
	}
	return city, country
}

const earthRadiusKm = 6371.0

func distanceKm(a, b model.GeoPoint) float64 {
	lat1, lat2 := a.Lat*math.Pi/180, b.Lat*math.Pi/180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// --------------------------------------------------------------------------
// Availability
// --------------------------------------------------------------------------

func availabilityFit(p Policy, in *Input) Component {
	c := Component{Name: NameAvailability, Max: p.Weights.Availability}
	if busy, ok := in.Availability.FirstConflict(in.Tournament.Interval()); ok {
		c.Reason = fmt.Sprintf("overlaps busy period %s..%s", busy.Start, busy.End)
		return c
	}
	c.Value = c.Max
	return c
}
