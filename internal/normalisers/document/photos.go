package document

import (
	"sort"
	"strconv"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// ParsePhotoInput classifies whatever a caller supplied for a photo slot.
// Accepted shapes: nil, a data URL string, a file-list-like map with
// "length" and index keys, any other non-empty map (a single file-like
// object, with or without "dataUrl"), []any, []string, domain.PhotoRef and
// []domain.PhotoRef. Empty strings, empty maps and unrecognised scalars are
// dropped.
func ParsePhotoInput(v any) domain.PhotoInput {
	switch t := v.(type) {
	case nil:
		return domain.NoPhotos()
	case domain.PhotoInput:
		return t
	case domain.PhotoRef:
		return domain.SinglePhoto(t)
	case *domain.PhotoRef:
		if t == nil {
			return domain.NoPhotos()
		}
		return domain.SinglePhoto(*t)
	case []domain.PhotoRef:
		return domain.ManyPhotos(t)
	case string:
		return domain.SinglePhoto(domain.PhotoRef{DataURL: t})
	case []string:
		refs := make([]domain.PhotoRef, len(t))
		for i, s := range t {
			refs[i] = domain.PhotoRef{DataURL: s}
		}
		return domain.ManyPhotos(refs)
	case []any:
		var refs []domain.PhotoRef
		for _, item := range t {
			refs = append(refs, ParsePhotoInput(item).Refs()...)
		}
		return domain.ManyPhotos(refs)
	case map[string]any:
		if _, ok := t["dataUrl"]; !ok {
			if _, ok := t["length"]; ok {
				return domain.ManyPhotos(fileList(t))
			}
		}
		return domain.SinglePhoto(refFromMap(t))
	default:
		return domain.NoPhotos()
	}
}

// ParsePhotoSlots parses every slot of a raw slot map.
// Non-map input yields an empty map.
func ParsePhotoSlots(v any) map[string][]domain.PhotoRef {
	out := make(map[string][]domain.PhotoRef)
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			out[k] = ParsePhotoInput(item).Refs()
		}
	case map[string][]domain.PhotoRef:
		for k, refs := range t {
			out[k] = domain.ManyPhotos(refs).Refs()
		}
	}
	return out
}

// refFromMap keeps dataUrl and name and carries every other key in Meta.
func refFromMap(m map[string]any) domain.PhotoRef {
	ref := domain.PhotoRef{}
	url, urlOK := m["dataUrl"].(string)
	name, nameOK := m["name"].(string)
	ref.DataURL, ref.Name = url, name
	for k, v := range m {
		if (k == "dataUrl" && urlOK) || (k == "name" && nameOK) {
			continue
		}
		if ref.Meta == nil {
			ref.Meta = make(map[string]any, len(m))
		}
		ref.Meta[k] = domain.CloneValue(v)
	}
	return ref
}

// fileList reads {length: n, "0": ..., "1": ...}. Entries beyond length are
// ignored; missing indexes are skipped.
func fileList(m map[string]any) []domain.PhotoRef {
	n := domain.IntValue(m["length"], 0)
	indexes := make([]int, 0, len(m))
	for k := range m {
		i, err := strconv.Atoi(k)
		if err == nil && i >= 0 && i < n {
			indexes = append(indexes, i)
		}
	}
	sort.Ints(indexes)

	refs := make([]domain.PhotoRef, 0, len(indexes))
	for _, i := range indexes {
		refs = append(refs, ParsePhotoInput(m[strconv.Itoa(i)]).Refs()...)
	}
	return refs
}
