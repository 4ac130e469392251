package querycache

import "strings"

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// Key addresses one cache entry: a whole resource collection when ID is
// empty, a single item otherwise.
type Key struct {
	Resource string
	ID       string
}

// CollectionKey is the key of the full collection of resource.
func CollectionKey(resource string) Key {
	return Key{Resource: resource}
}

// ItemKey is the key of a single item of resource.
func ItemKey(resource, id string) Key {
	return Key{Resource: resource, ID: id}
}

// IsCollection reports whether k addresses a whole collection.
func (k Key) IsCollection() bool {
	return k.ID == ""
}

// Collection returns the collection key of the same resource.
func (k Key) Collection() Key {
	return Key{Resource: k.Resource}
}

// String renders the key as "resource" or "resource::id".
func (k Key) String() string {
	if k.ID == "" {
		return k.Resource
	}
	return k.Resource + KeySeparator + k.ID
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) Key {
	resource, id, _ := strings.Cut(s, KeySeparator)
	return Key{Resource: resource, ID: id}
}
