package live

import (
	"time"

	"github.com/okian/shoresquad/internal/domain/weather"
)

type span struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

func (s span) toRange() weather.Range {
	return weather.Range{Low: int(s.Low), High: int(s.High)}
}

type wind struct {
	Speed     span   `json:"speed"`
	Direction string `json:"direction"`
}

type general struct {
	Forecast         string `json:"forecast"`
	RelativeHumidity span   `json:"relative_humidity"`
	Temperature      span   `json:"temperature"`
	Wind             wind   `json:"wind"`
}

func (g general) toCurrent() weather.CurrentConditions {
	return weather.CurrentConditions{
		ForecastText:  g.Forecast,
		Humidity:      g.RelativeHumidity.toRange(),
		WindSpeed:     g.Wind.Speed.toRange(),
		WindDirection: g.Wind.Direction,
	}
}

type forecast24h struct {
	Items []struct {
		General general `json:"general"`
	} `json:"items"`
}

type dayEntry struct {
	Date             string `json:"date"`
	Forecast         string `json:"forecast"`
	RelativeHumidity span   `json:"relative_humidity"`
	Temperature      span   `json:"temperature"`
	Wind             wind   `json:"wind"`
}

type forecast4day struct {
	Items []outlookItem `json:"items"`
}

type outlookItem struct {
	Forecasts []dayEntry `json:"forecasts"`
}

// toDays converts forecasts, skipping entries whose date does not parse.
func (o outlookItem) toDays() []weather.DayForecast {
	days := make([]weather.DayForecast, 0, len(o.Forecasts))
	for _, f := range o.Forecasts {
		d, err := time.Parse(time.DateOnly, f.Date)
		if err != nil {
			continue
		}
		days = append(days, weather.DayForecast{
			Date:         d,
			ForecastText: f.Forecast,
			Temperature:  f.Temperature.toRange(),
			Humidity:     f.RelativeHumidity.toRange(),
			WindSpeed:    f.Wind.Speed.toRange(),
		})
	}
	return days
}

type reading struct {
	StationID string  `json:"station_id"`
	Value     float64 `json:"value"`
}

type airTemperature struct {
	Items []struct {
		Readings []reading `json:"readings"`
	} `json:"items"`
}

// station returns the reading of the most preferred station present in the
// first reading group, or nil.
func (a airTemperature) station(preference []string) *float64 {
	if len(a.Items) == 0 {
		return nil
	}
	byID := make(map[string]float64, len(a.Items[0].Readings))
	for _, r := range a.Items[0].Readings {
		if _, dup := byID[r.StationID]; !dup {
			byID[r.StationID] = r.Value
		}
	}
	for _, id := range preference {
		if v, ok := byID[id]; ok {
			return weather.Celsius(v)
		}
	}
	return nil
}
