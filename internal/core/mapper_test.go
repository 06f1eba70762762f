package core

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestMapper(t *testing.T, store RecordStore, exists ExistsFunc) *FieldMapper {
	t.Helper()
	log := NewMissingFileLog(filepath.Join(t.TempDir(), "missing_files"))
	files := NewFileResolver("/opt/data", exists, log)
	return NewFieldMapper(testAuthority(), files, store)
}

func TestMapBasicRow(t *testing.T) {
	m := newTestMapper(t, newFakeStore(), allExist)

	rec, err := m.Map(context.Background(), RawRow{Line: 2, Values: map[string]string{
		"Item Ark":  "21198/zz001",
		"Title":     "First Title|~|Alternate",
		"Subject":   "dogs|~|cats",
		"File Name": "master.tif",
	}})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if rec.Identifier != "ark:/21198/zz001" {
		t.Errorf("Identifier = %q, want prefixed ark", rec.Identifier)
	}
	if rec.Title != "First Title" {
		t.Errorf("Title = %q, want first value only", rec.Title)
	}
	if rec.Visibility != VisibilityOpen {
		t.Errorf("Visibility = %q, want %q", rec.Visibility, VisibilityOpen)
	}
	if want := []string{"dogs", "cats"}; !reflect.DeepEqual(rec.Attributes["subject"], want) {
		t.Errorf("subject = %v, want %v", rec.Attributes["subject"], want)
	}
	if rec.Attributes["caption"] == nil {
		t.Error("absent fields must map to empty non-nil lists")
	}
	if rec.CollectionLink != nil {
		t.Errorf("CollectionLink = %+v, want nil", rec.CollectionLink)
	}

	want := []FileReference{{
		SourceName:      "master.tif",
		ResolvedLocator: "file:///opt/data/master.tif",
		Existed:         true,
	}}
	if !reflect.DeepEqual(rec.FileReferences, want) {
		t.Errorf("FileReferences = %+v, want %+v", rec.FileReferences, want)
	}
}

func TestMapSubfieldMarkers(t *testing.T) {
	m := newTestMapper(t, newFakeStore(), allExist)

	rec, err := m.Map(context.Background(), RawRow{Line: 2, Values: map[string]string{
		"Item Ark":          "ark:/21198/zz001",
		"Title":             "Markers",
		"Subject":           "California $z Los Angeles",
		"Name.photographer": "Stone, Gerald $d 1910-1998",
	}})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if want := []string{"California--Los Angeles"}; !reflect.DeepEqual(rec.Attributes["subject"], want) {
		t.Errorf("subject = %v, want %v", rec.Attributes["subject"], want)
	}
	if want := []string{"Stone, Gerald 1910-1998"}; !reflect.DeepEqual(rec.Attributes["photographer"], want) {
		t.Errorf("photographer = %v, want %v", rec.Attributes["photographer"], want)
	}
}

func TestMapRightsResolution(t *testing.T) {
	m := newTestMapper(t, newFakeStore(), allExist)

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"known label resolves to term id", "copyrighted", []string{"http://vocabs.library.ucla.edu/rights/copyrighted"}},
		{"unknown label passes through", "mystery rights", []string{"mystery rights"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := m.Map(context.Background(), RawRow{Line: 2, Values: map[string]string{
				"Item Ark":               "ark:/21198/zz001",
				"Title":                  "Rights",
				"Rights.copyrightStatus": tt.value,
			}})
			if err != nil {
				t.Fatalf("Map() error = %v", err)
			}
			if !reflect.DeepEqual(rec.Attributes["rights_statement"], tt.want) {
				t.Errorf("rights_statement = %v, want %v", rec.Attributes["rights_statement"], tt.want)
			}
		})
	}
}

func TestMapBlankRightsDefaultsToUnknown(t *testing.T) {
	m := newTestMapper(t, newFakeStore(), allExist)

	rec, err := m.Map(context.Background(), RawRow{Line: 2, Values: map[string]string{
		"Item Ark":               "ark:/21198/zz001",
		"Title":                  "No Rights",
		"Rights.copyrightStatus": "",
	}})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	want := []string{"http://vocabs.library.ucla.edu/rights/unknown"}
	if !reflect.DeepEqual(rec.Attributes["rights_statement"], want) {
		t.Errorf("rights_statement = %v, want the unknown default %v", rec.Attributes["rights_statement"], want)
	}
}

func TestMapProjectOverrides(t *testing.T) {
	m := newTestMapper(t, newFakeStore(), allExist)

	rec, err := m.Map(context.Background(), RawRow{Line: 2, Values: map[string]string{
		"Item Ark":      "ark:/21198/zz001",
		"Title":         "Daily News",
		"Project Name":  "Los Angeles Daily News Negatives",
		"Format.extent": "2 prints",
	}})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if want := []string{"1 photograph"}; !reflect.DeepEqual(rec.Attributes["extent"], want) {
		t.Errorf("extent = %v, want override %v", rec.Attributes["extent"], want)
	}
	if want := []string{"No linguistic content"}; !reflect.DeepEqual(rec.Attributes["language"], want) {
		t.Errorf("language = %v, want override %v", rec.Attributes["language"], want)
	}
	want := []string{"University of California, Los Angeles. Library. Department of Special Collections"}
	if !reflect.DeepEqual(rec.Attributes["repository"], want) {
		t.Errorf("repository = %v, want override %v", rec.Attributes["repository"], want)
	}
}

func TestMapParentCollection(t *testing.T) {
	store := newFakeStore()
	m := newTestMapper(t, store, allExist)

	rec, err := m.Map(context.Background(), RawRow{Line: 2, Values: map[string]string{
		"Item Ark":   "ark:/21198/zz001",
		"Title":      "Child",
		"Parent ARK": "21198/parent",
	}})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if rec.CollectionLink == nil {
		t.Fatal("expected a collection link")
	}
	if rec.CollectionLink.ParentArk != "ark:/21198/parent" {
		t.Errorf("ParentArk = %q, want prefixed ark", rec.CollectionLink.ParentArk)
	}
	if id, ok := store.collections["ark:/21198/parent"]; !ok || id != rec.CollectionLink.CollectionID {
		t.Errorf("collection not created in store: %+v", store.collections)
	}
}

func TestMapParentCollectionError(t *testing.T) {
	store := newFakeStore()
	store.collectionErr = errors.New("store down")
	m := newTestMapper(t, store, allExist)

	_, err := m.Map(context.Background(), RawRow{Line: 2, Values: map[string]string{
		"Item Ark":   "ark:/21198/zz001",
		"Title":      "Child",
		"Parent ARK": "ark:/21198/parent",
	}})
	if err == nil {
		t.Fatal("expected error when parent collection cannot be resolved")
	}
}

func TestMapCollectionRowHasNoFiles(t *testing.T) {
	probed := false
	m := newTestMapper(t, newFakeStore(), func(string) bool {
		probed = true
		return true
	})

	rec, err := m.Map(context.Background(), RawRow{Line: 2, Values: map[string]string{
		"Item Ark":    "ark:/21198/zz001",
		"Title":       "A Collection",
		"Object Type": "Collection",
		"File Name":   "ignored.tif",
	}})
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	if len(rec.FileReferences) != 0 || rec.FileReferences == nil {
		t.Errorf("FileReferences = %+v, want empty non-nil", rec.FileReferences)
	}
	if probed {
		t.Error("collection rows must not probe the file share")
	}
}
