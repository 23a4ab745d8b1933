package models

// RouteType selects how the router forwards traffic for a matched origin.
type RouteType string

const (
	RouteTypeRedirect RouteType = "redirect"
	RouteTypeProxy    RouteType = "proxy"
)

// RouteTypes returns the selectable route types in the order the dashboard shows them.
func RouteTypes() []RouteType {
	return []RouteType{RouteTypeRedirect, RouteTypeProxy}
}

// Valid reports whether t is one of RouteTypes.
func (t RouteType) Valid() bool {
	switch t {
	case RouteTypeRedirect, RouteTypeProxy:
		return true
	default:
		return false
	}
}

// RouteInfo is the destination side of a route as held in memory
type RouteInfo struct {
	To   string    `json:"to"`
	Type RouteType `json:"type"`
}

// RouteView is one rendered row of the routes table
type RouteView struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	Type RouteType `json:"type"`
}
