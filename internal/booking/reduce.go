package booking

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/capitalize-ai/cruise-concierge/internal/cruise"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
)

// ItinerarySailing is a sailing narrowed down to a single room offer.
type ItinerarySailing struct {
	Itinerary *cruise.Itinerary
	Sailing   *cruise.Sailing
	Room      *cruise.Room
}

// Reduce keeps, for every itinerary and sailing, the room offer in the target
// category. Sailings without an offer in that category, or whose offer is sold
// out, are dropped. Source order is preserved.
func Reduce(resp *cruise.SearchResponse, target Category) []ItinerarySailing {
	if resp == nil {
		return nil
	}

	var pairs []ItinerarySailing
	for i := range resp.Results.Itineraries {
		itin := &resp.Results.Itineraries[i]
		for j := range itin.Sailings {
			sailing := &itin.Sailings[j]
			for _, room := range sailing.Rooms.All() {
				if room.MetaCode == string(target) && !room.SoldOut {
					pairs = append(pairs, ItinerarySailing{Itinerary: itin, Sailing: sailing, Room: room})
					break
				}
			}
		}
	}
	return pairs
}

// Flatten turns reduced pairs into sailing candidates, in order.
func Flatten(pairs []ItinerarySailing) ([]model.SailingCandidate, error) {
	candidates := make([]model.SailingCandidate, 0, len(pairs))
	for _, p := range pairs {
		category, err := ParseCategory(p.Room.MetaCode)
		if err != nil {
			return nil, err
		}

		name, err := FormatItinerary(
			p.Itinerary.Duration,
			p.Itinerary.DeparturePortName,
			p.Itinerary.RegionName,
			category,
			p.Room.Price,
			false,
			p.Sailing.DepartureDate,
		)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, model.SailingCandidate{
			ItineraryCode:     strings.Split(p.Itinerary.ID, "_")[0],
			ItineraryName:     name,
			SailingDate:       p.Sailing.DepartureDate,
			Duration:          p.Itinerary.Duration,
			SailingID:         p.Sailing.SailingID,
			CategoryCode:      p.Room.MetaCode,
			RateCode:          p.Room.RateCode,
			DestinationCode:   p.Itinerary.RegionCode,
			DestinationName:   p.Itinerary.RegionName,
			ShipCode:          p.Itinerary.ShipCode,
			Price:             p.Room.Price,
			DeparturePortName: p.Itinerary.DeparturePortName,
		})
	}
	return candidates, nil
}

// FormatItinerary renders a spoken itinerary description, for example
// "4 days from Miami to Bahamas in an ocean view stateroom for $399 on November 26, 2018".
func FormatItinerary(duration int, departurePort, destination string, category Category, price float64, includesTax bool, sailDate string) (string, error) {
	if _, err := ParseCategory(string(category)); err != nil {
		return "", err
	}

	date, err := formatSailDate(sailDate)
	if err != nil {
		return "", err
	}

	priceText := "$" + formatPrice(price)
	if includesTax {
		priceText += " including taxes"
	}

	port, _, _ := strings.Cut(departurePort, ",")

	return strings.Join([]string{
		strconv.Itoa(duration),
		"days from",
		strings.TrimSpace(port),
		"to",
		destination,
		category.Phrase(),
		"for",
		priceText,
		"on",
		date,
	}, " "), nil
}

// formatPrice prints whole amounts without decimals and cents otherwise.
func formatPrice(price float64) string {
	if price == math.Trunc(price) {
		return strconv.FormatFloat(price, 'f', 0, 64)
	}
	return strconv.FormatFloat(price, 'f', 2, 64)
}

func formatSailDate(sailDate string) (string, error) {
	t, err := cruise.ParseSailDate(sailDate)
	if err != nil {
		return "", err
	}
	t = t.UTC()
	return fmt.Sprintf("%s %d, %d", t.Month(), t.Day(), t.Year()), nil
}
