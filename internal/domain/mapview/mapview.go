// Package mapview models the tile map shown on the page. The browser widget
// draws whatever Snapshot returns.
//
// A Map is not safe for concurrent use; the app controller serialises access.
package mapview

import (
	"html/template"

	"github.com/okian/shoresquad/internal/domain/geo"
)

// Defaults for the OpenStreetMap tile layer.
const (
	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	DefaultZoom        = 13
)

// TileLayer describes where tiles come from and how they are credited.
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// Marker is a pin with an optional popup.
type Marker struct {
	seq       int
	position  geo.Coordinate
	popup     template.HTML
	bound     bool
	openPopup bool
}

// BindPopup attaches popup content and returns the marker for chaining.
func (m *Marker) BindPopup(html template.HTML) *Marker {
	m.popup = html
	m.bound = true
	return m
}

// SetPopupContent replaces the popup content of an already bound marker.
func (m *Marker) SetPopupContent(html template.HTML) {
	m.popup = html
	m.bound = true
}

// OpenPopup marks the popup as initially open.
func (m *Marker) OpenPopup() *Marker {
	m.openPopup = true
	return m
}

// Position returns where the marker is placed.
func (m *Marker) Position() geo.Coordinate { return m.position }

// Popup returns the current popup content.
func (m *Marker) Popup() template.HTML { return m.popup }

// Map is a tile map centred on the visitor.
type Map struct {
	center  geo.Coordinate
	zoom    int
	tiles   TileLayer
	markers []*Marker
}

// Option applies a configuration option to the Map.
type Option func(*Map)

// WithTiles overrides the tile layer.
func WithTiles(url, attribution string) Option {
	return func(m *Map) {
		if url != "" {
			m.tiles.URL = url
		}
		if attribution != "" {
			m.tiles.Attribution = attribution
		}
	}
}

// New creates a map centred on center at the given zoom.
func New(center geo.Coordinate, zoom int, opts ...Option) *Map {
	m := &Map{
		center: center,
		zoom:   zoom,
		tiles:  TileLayer{URL: DefaultTileURL, Attribution: DefaultAttribution},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddMarker places a marker at pos.
func (m *Map) AddMarker(pos geo.Coordinate) *Marker {
	mk := &Marker{seq: len(m.markers), position: pos}
	m.markers = append(m.markers, mk)
	return mk
}

// Len returns the number of markers on the map.
func (m *Map) Len() int { return len(m.markers) }

// Center returns the map centre.
func (m *Map) Center() geo.Coordinate { return m.center }

// MarkerView is the serialisable form of a marker.
type MarkerView struct {
	ID        int           `json:"id"`
	Latitude  float64       `json:"lat"`
	Longitude float64       `json:"lng"`
	Popup     template.HTML `json:"popup,omitempty"`
	Open      bool          `json:"open,omitempty"`
}

// View is the serialisable form of the whole map.
type View struct {
	Center  geo.Coordinate `json:"center"`
	Zoom    int            `json:"zoom"`
	Tiles   TileLayer      `json:"tiles"`
	Markers []MarkerView   `json:"markers"`
}

// Snapshot copies the map state for rendering.
func (m *Map) Snapshot() View {
	v := View{
		Center:  m.center,
		Zoom:    m.zoom,
		Tiles:   m.tiles,
		Markers: make([]MarkerView, 0, len(m.markers)),
	}
	for _, mk := range m.markers {
		mv := MarkerView{
			ID:        mk.seq,
			Latitude:  mk.position.Latitude,
			Longitude: mk.position.Longitude,
			Open:      mk.openPopup,
		}
		if mk.bound {
			mv.Popup = mk.popup
		}
		v.Markers = append(v.Markers, mv)
	}
	return v
}
