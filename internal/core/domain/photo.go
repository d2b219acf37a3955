package domain

// PhotoRef is a normalised photo value held in a photo slot. A file-like
// object that has not been read yet has no DataURL; its remaining keys
// (size, type, ...) are kept in Meta.
type PhotoRef struct {
	DataURL string         `json:"dataUrl"`
	Name    string         `json:"name,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// IsZero reports whether the reference carries nothing at all.
func (p PhotoRef) IsZero() bool {
	return p.DataURL == "" && p.Name == "" && len(p.Meta) == 0
}

// Clone deep copies the reference.
func (p PhotoRef) Clone() PhotoRef {
	if p.Meta != nil {
		meta := make(map[string]any, len(p.Meta))
		for k, v := range p.Meta {
			meta[k] = CloneValue(v)
		}
		p.Meta = meta
	}
	return p
}

// Raw renders the reference as a JSON-like map. Meta keys sit beside
// dataUrl and name, as they did in the object the reference came from.
func (p PhotoRef) Raw() map[string]any {
	m := make(map[string]any, 2+len(p.Meta))
	for k, v := range p.Meta {
		m[k] = CloneValue(v)
	}
	m["dataUrl"] = p.DataURL
	if p.Name != "" {
		m["name"] = p.Name
	}
	return m
}

// PhotoInputKind tags the variant held by a PhotoInput.
type PhotoInputKind int

const (
	// PhotoEmpty holds no photos.
	PhotoEmpty PhotoInputKind = iota

	// PhotoSingle holds exactly one photo.
	PhotoSingle

	// PhotoMany holds an ordered list of photos.
	PhotoMany
)

// PhotoInput is the boundary representation of whatever a caller supplied
// for a photo slot. It is built once and never re-probed downstream.
type PhotoInput struct {
	kind PhotoInputKind
	refs []PhotoRef
}

// NoPhotos returns the empty variant.
func NoPhotos() PhotoInput {
	return PhotoInput{kind: PhotoEmpty}
}

// SinglePhoto wraps one reference. A zero reference yields the empty variant.
func SinglePhoto(ref PhotoRef) PhotoInput {
	if ref.IsZero() {
		return NoPhotos()
	}
	return PhotoInput{kind: PhotoSingle, refs: []PhotoRef{ref}}
}

// ManyPhotos wraps a list, dropping zero references.
func ManyPhotos(refs []PhotoRef) PhotoInput {
	kept := make([]PhotoRef, 0, len(refs))
	for _, r := range refs {
		if !r.IsZero() {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return NoPhotos()
	}
	return PhotoInput{kind: PhotoMany, refs: kept}
}

// Kind returns the variant tag.
func (p PhotoInput) Kind() PhotoInputKind {
	return p.kind
}

// Refs returns the photos as a fresh, never-nil slice.
func (p PhotoInput) Refs() []PhotoRef {
	out := make([]PhotoRef, len(p.refs))
	for i, r := range p.refs {
		out[i] = r.Clone()
	}
	return out
}

// FileHandle identifies a photo file selected by the user, before it is
// read into a data URL.
type FileHandle struct {
	// Path is the location the photo reader resolves.
	Path string

	// Name is the display name; defaults to the base of Path.
	Name string

	// MIMEType overrides content sniffing when set.
	MIMEType string
}

// ClonePhotoSlots deep copies a slot map.
func ClonePhotoSlots(in map[string][]PhotoRef) map[string][]PhotoRef {
	out := make(map[string][]PhotoRef, len(in))
	for k, v := range in {
		refs := make([]PhotoRef, len(v))
		for i, r := range v {
			refs[i] = r.Clone()
		}
		out[k] = refs
	}
	return out
}

func rawPhotoSlots(in map[string][]PhotoRef) map[string]any {
	out := make(map[string]any, len(in))
	for k, refs := range in {
		list := make([]any, 0, len(refs))
		for _, r := range refs {
			list = append(list, r.Raw())
		}
		out[k] = list
	}
	return out
}
