package value

import "github.com/ipfs/go-cid"

// ListField returns the items of the list stored under key, together with
// whether the key is present. It fails with a [ShapeError] when the key is
// present but does not hold a list.
func (v Value) ListField(key string) ([]Value, bool, error) {
	f, ok := v.Field(key)
	if !ok {
		return nil, false, nil
	}
	items, ok := f.AsList()
	if !ok {
		return nil, true, ShapeError{Path: key, Want: List, Got: f.Kind()}
	}
	return items, true, nil
}

// LinkField returns the link stored under key of a map value. A missing key
// fails with a [ShapeError] whose Missing flag is set.
func (v Value) LinkField(key string) (cid.Cid, error) {
	f, ok := v.Field(key)
	if !ok {
		return cid.Undef, ShapeError{Path: key, Want: Link, Got: v.Kind(), Missing: true}
	}
	c, ok := f.AsLink()
	if !ok {
		return cid.Undef, ShapeError{Path: key, Want: Link, Got: f.Kind()}
	}
	return c, nil
}

// ShapeError reports a value that does not have the expected kind at a path.
type ShapeError struct {
	Path    string
	Want    Kind
	Got     Kind
	Missing bool
}

func (e ShapeError) Error() string {
	if e.Missing {
		return "missing " + e.Path + " field in " + e.Got.String()
	}
	return e.Path + " is " + e.Got.String() + ", expected " + e.Want.String()
}
