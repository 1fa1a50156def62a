package domain

// EventType is one entry of the backend event-type reference list.
type EventType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
}

// Label returns the user-facing name, preferring the display name.
func (e EventType) Label() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Name
}

// CatchAllCategoryID is the reserved catch-all bucket. It is legal under
// every event type and always sorts last wherever categories are listed.
const CatchAllCategoryID = "other"

// Category is one entry of the backend category reference list. The ID may
// be a stable slug ("decorator") or an opaque backend identifier.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Label returns the user-facing name, preferring the display name.
func (c Category) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// IsCatchAll reports whether this is the reserved catch-all category.
func (c Category) IsCatchAll() bool {
	return c.ID == CatchAllCategoryID
}

// EventTypeCategoryLink is a many-to-many edge. The set of links for a given
// event type defines which categories are legal under it.
type EventTypeCategoryLink struct {
	EventTypeID int    `json:"eventTypeId"`
	CategoryID  string `json:"categoryId"`
}

// Catalog is an immutable snapshot of the reference data. A zero Catalog is
// usable and simply resolves nothing.
type Catalog struct {
	EventTypes []EventType             `json:"eventTypes"`
	Categories []Category              `json:"categories"`
	Links      []EventTypeCategoryLink `json:"links"`
}

// EventTypeByID returns the event type with the given id, if present.
func (c Catalog) EventTypeByID(id int) (EventType, bool) {
	for _, et := range c.EventTypes {
		if et.ID == id {
			return et, true
		}
	}
	return EventType{}, false
}

// CategoryByID returns the category with the given id, if present.
func (c Catalog) CategoryByID(id string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// LinkedCategoryIDs returns the category ids linked to the given event type.
// An empty result means the event type has no links at all.
func (c Catalog) LinkedCategoryIDs(eventTypeID int) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, l := range c.Links {
		if l.EventTypeID == eventTypeID {
			ids[l.CategoryID] = struct{}{}
		}
	}
	return ids
}
