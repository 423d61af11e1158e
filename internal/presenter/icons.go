package presenter

import "strings"

// DefaultIcon is used when no rule matches.
const DefaultIcon = "🌤️"

type iconRule struct {
	keywords []string
	icon     string
}

// iconRules are evaluated in order; the first rule with a matching keyword wins.
var iconRules = []iconRule{
	{keywords: []string{"thundery"}, icon: "⛈️"},
	{keywords: []string{"rain"}, icon: "🌧️"},
	{keywords: []string{"cloudy"}, icon: "☁️"},
	{keywords: []string{"fair", "sunny"}, icon: "☀️"},
	{keywords: []string{"windy"}, icon: "💨"},
	{keywords: []string{"showers"}, icon: "🌦️"},
}

// Icon picks an emoji for forecast text by case-insensitive keyword match.
func Icon(forecast string) string {
	text := strings.ToLower(forecast)
	for _, rule := range iconRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.icon
			}
		}
	}
	return DefaultIcon
}
