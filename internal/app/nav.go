package service

// NavItem is one entry of the navigation menu.
type NavItem struct {
	Label string
	Href  string
}

// Menu is the navigation menu model. The page script flips Expanded and the
// matching aria-expanded attribute on the client.
type Menu struct {
	Items     []NavItem
	Expanded  bool
	CTALabel  string
	CTATarget string
}

func defaultMenu() Menu {
	return Menu{
		Items: []NavItem{
			{Label: "Home", Href: "#home"},
			{Label: "Events", Href: "#events"},
			{Label: "Weather", Href: "#weather"},
			{Label: "Map", Href: "#map"},
		},
		CTALabel:  "Find a Cleanup",
		CTATarget: "#map",
	}
}
