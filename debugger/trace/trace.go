package trace

// Route says where a freshly produced record went.
type Route int

const (
	// RouteDirect records were written to their sink immediately.
	RouteDirect Route = iota
	// RouteBuffered records joined the producing goroutine's open run.
	RouteBuffered
	// RouteUnrouted records were queued because another goroutine had a run
	// open.
	RouteUnrouted
)

var routeNames = map[Route]string{
	RouteDirect:   "direct",
	RouteBuffered: "buffered",
	RouteUnrouted: "unrouted",
}

// String returns the lower-case route name used as a metric label.
func (r Route) String() string {
	if name, ok := routeNames[r]; ok {
		return name
	}
	return "unknown"
}
