// Package catalog holds the set of waypoints shown by the list and readout
// surfaces, keyed by waypoint key and kept in insertion order.
//
// A Collection is not safe for concurrent use. Share it through a Controller.
package catalog

import (
	"fmt"

	"github.com/woozymasta/wpmap/internal/waypoint"
)

// Listener receives the filtered view after every RefreshAll.
type Listener interface {
	WaypointsRefreshed(view []*waypoint.Waypoint)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(view []*waypoint.Waypoint)

// WaypointsRefreshed calls f(view).
func (f ListenerFunc) WaypointsRefreshed(view []*waypoint.Waypoint) { f(view) }

// Readout is the detail surface a selected waypoint is handed to.
type Readout interface {
	ShowWaypoint(w *waypoint.Waypoint, title string)
}

// Collection is an ordered set of waypoints with a text filter.
type Collection struct {
	order []string
	byKey map[string]*waypoint.Waypoint

	filter       string
	searchFields []string
	view         []*waypoint.Waypoint
	listener     Listener
}

// Option configures a Collection.
type Option func(*Collection)

// WithSearchFields makes the filter also match the named String properties.
func WithSearchFields(fields ...string) Option {
	return func(c *Collection) {
		c.searchFields = append(c.searchFields, fields...)
	}
}

// WithListener registers the consumer of refreshed views.
func WithListener(l Listener) Option {
	return func(c *Collection) {
		c.listener = l
	}
}

// New returns an empty collection.
func New(opts ...Option) *Collection {
	c := &Collection{byKey: make(map[string]*waypoint.Waypoint)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Put inserts w. A waypoint with the same key is replaced in place.
func (c *Collection) Put(w *waypoint.Waypoint) {
	if _, ok := c.byKey[w.Key()]; !ok {
		c.order = append(c.order, w.Key())
	}
	c.byKey[w.Key()] = w
}

// PutAll inserts every waypoint in ws in order.
func (c *Collection) PutAll(ws []*waypoint.Waypoint) {
	for _, w := range ws {
		c.Put(w)
	}
}

// Remove deletes the waypoint with the given key.
func (c *Collection) Remove(key string) error {
	if _, ok := c.byKey[key]; !ok {
		return fmt.Errorf("%w: %s", waypoint.ErrNotFound, key)
	}

	delete(c.byKey, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the waypoint stored under key.
func (c *Collection) Get(key string) (*waypoint.Waypoint, error) {
	w, ok := c.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", waypoint.ErrNotFound, key)
	}
	return w, nil
}

// Len returns the number of waypoints.
func (c *Collection) Len() int { return len(c.order) }

// All returns every waypoint in collection order.
func (c *Collection) All() []*waypoint.Waypoint {
	out := make([]*waypoint.Waypoint, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byKey[k])
	}
	return out
}

// Filter returns the stored filter text.
func (c *Collection) Filter() string { return c.filter }

// SetFilter stores the filter text. The view changes on the next RefreshAll.
func (c *Collection) SetFilter(text string) {
	c.filter = text
}

// RefreshAll recomputes the view from the current filter and contents and
// pushes it to the listener.
func (c *Collection) RefreshAll() []*waypoint.Waypoint {
	m := newMatcher(c.filter, c.searchFields)

	view := make([]*waypoint.Waypoint, 0, len(c.order))
	for _, k := range c.order {
		if w := c.byKey[k]; m.match(w) {
			view = append(view, w)
		}
	}
	c.view = view

	if c.listener != nil {
		c.listener.WaypointsRefreshed(view)
	}
	return view
}

// View returns the result of the last RefreshAll.
func (c *Collection) View() []*waypoint.Waypoint { return c.view }

// Select resolves key and hands the waypoint to r. title replaces the
// display name as the readout heading when not empty.
func (c *Collection) Select(key, title string, r Readout) (*waypoint.Waypoint, error) {
	w, err := c.Get(key)
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = w.DisplayName
	}
	if r != nil {
		r.ShowWaypoint(w, title)
	}
	return w, nil
}
