package rpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"streamflix/internal/catalog"
)

// ToStruct encodes an item with the same field names as the JSON API.
func ToStruct(it catalog.MediaItem) (*structpb.Struct, error) {
	genres := make([]any, 0, len(it.Genres))
	for _, g := range it.Genres {
		genres = append(genres, g)
	}
	return structpb.NewStruct(map[string]any{
		"id":          it.ID,
		"title":       it.Title,
		"description": it.Description,
		"thumbnail":   it.Thumbnail,
		"source": map[string]any{
			"kind":   string(it.Source.Kind),
			"url":    it.Source.URL,
			"handle": it.Source.Handle,
		},
		"category": it.Category,
		"kind":     string(it.Kind),
		"year":     it.Year,
		"duration": it.Duration,
		"seasons":  it.Seasons,
		"rating":   it.Rating,
		"genres":   genres,
		"featured": it.Featured,
	})
}

// FromStruct is the inverse of ToStruct.
func FromStruct(s *structpb.Struct) (catalog.MediaItem, error) {
	f := s.GetFields()
	str := func(v *structpb.Value) string { return v.GetStringValue() }

	it := catalog.MediaItem{
		ID:          str(f["id"]),
		Title:       str(f["title"]),
		Description: str(f["description"]),
		Thumbnail:   str(f["thumbnail"]),
		Category:    str(f["category"]),
		Kind:        catalog.Kind(str(f["kind"])),
		Year:        int(f["year"].GetNumberValue()),
		Duration:    str(f["duration"]),
		Seasons:     int(f["seasons"].GetNumberValue()),
		Rating:      str(f["rating"]),
		Featured:    f["featured"].GetBoolValue(),
		Genres:      []string{},
	}
	if src := f["source"].GetStructValue(); src != nil {
		sf := src.GetFields()
		it.Source = catalog.Source{
			Kind:   catalog.SourceKind(str(sf["kind"])),
			URL:    str(sf["url"]),
			Handle: str(sf["handle"]),
		}
	}
	for _, g := range f["genres"].GetListValue().GetValues() {
		s, ok := g.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return catalog.MediaItem{}, fmt.Errorf("genre is not a string: %v", g)
		}
		it.Genres = append(it.Genres, s.StringValue)
	}
	return it, nil
}

func toList(items []catalog.MediaItem) (*structpb.ListValue, error) {
	values := make([]*structpb.Value, 0, len(items))
	for _, it := range items {
		s, err := ToStruct(it)
		if err != nil {
			return nil, err
		}
		values = append(values, structpb.NewStructValue(s))
	}
	return &structpb.ListValue{Values: values}, nil
}

func fromList(l *structpb.ListValue) ([]catalog.MediaItem, error) {
	items := make([]catalog.MediaItem, 0, len(l.GetValues()))
	for _, v := range l.GetValues() {
		it, err := FromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}
