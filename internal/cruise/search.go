package cruise

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const searchPath = "/bookingengine/api/search"

// SearchRequest holds the cruise search filters. Empty fields are not sent.
type SearchRequest struct {
	Destination      string
	EmbarkationPort  string
	DateRange        string // YYYY-MM-DD/YYYY-MM-DD
	PassThroughPorts []string
	Ship             string
	RateCodes        []string
	NumberOfGuests   int
}

// SearchResponse is the booking engine search payload.
type SearchResponse struct {
	Results struct {
		Itineraries []Itinerary `json:"itineraries"`
	} `json:"results"`
}

// Itinerary is a named route with its scheduled sailings.
type Itinerary struct {
	ID                string    `json:"id"` // e.g. BAD_MIA_VI_3_Fri
	Duration          int       `json:"dur"`
	DeparturePortName string    `json:"departurePortName"`
	ShipCode          string    `json:"shipCode"`
	ShipName          string    `json:"shipName"`
	RegionName        string    `json:"regionName"`
	RegionCode        string    `json:"regionCode"`
	Sailings          []Sailing `json:"sailings"`
}

// Sailing is one departure of an itinerary.
type Sailing struct {
	DepartureDate string `json:"departureDate"`
	ArrivalDate   string `json:"arrivalDate"`
	SailingID     string `json:"sailingId"`
	Rooms         Rooms  `json:"rooms"`
}

// Rooms holds one offer per stateroom category.
type Rooms struct {
	Interior  *Room `json:"interior,omitempty"`
	OceanView *Room `json:"oceanview,omitempty"`
	Balcony   *Room `json:"balcony,omitempty"`
	Suite     *Room `json:"suite,omitempty"`
}

// All returns the offers present, in category order.
func (r Rooms) All() []*Room {
	rooms := make([]*Room, 0, 4)
	for _, room := range []*Room{r.Interior, r.OceanView, r.Balcony, r.Suite} {
		if room != nil {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

// Room is the offer for one stateroom category on a sailing.
type Room struct {
	MetaCode string  `json:"metacode"`
	Price    float64 `json:"price"`
	RateCode string  `json:"rateCode"`
	SoldOut  bool    `json:"soldOut"`
}

// Search runs a cruise search.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	query, err := searchQuery(req)
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := c.getJSON(ctx, "search", searchPath, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func searchQuery(req *SearchRequest) (url.Values, error) {
	q := url.Values{}
	if req.Destination != "" {
		q.Set("dest", req.Destination)
	}
	if req.EmbarkationPort != "" {
		q.Set("port", req.EmbarkationPort)
	}
	if len(req.PassThroughPorts) > 0 {
		q.Set("ptPort", strings.Join(req.PassThroughPorts, ","))
	}
	if req.Ship != "" {
		q.Set("shipCode", req.Ship)
	}
	if len(req.RateCodes) > 0 {
		q.Set("rateCode", strings.Join(req.RateCodes, ","))
	}
	if req.NumberOfGuests > 0 {
		q.Set("numAdults", fmt.Sprint(req.NumberOfGuests))
	}
	if req.DateRange != "" {
		from, to, err := parseDateRange(req.DateRange)
		if err != nil {
			return nil, err
		}
		q.Set("datFrom", from)
		q.Set("datTo", to)
	}
	return q, nil
}

// parseDateRange turns 2017-02-01/2017-05-31 into 201702 and 201705.
func parseDateRange(dateRange string) (string, string, error) {
	parts := strings.Split(dateRange, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid date range %q", dateRange)
	}
	from, err := yearMonth(parts[0])
	if err != nil {
		return "", "", err
	}
	to, err := yearMonth(parts[1])
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func yearMonth(date string) (string, error) {
	parts := strings.Split(strings.TrimSpace(date), "-")
	if len(parts) < 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return "", fmt.Errorf("invalid date %q in date range", date)
	}
	return parts[0] + parts[1], nil
}
