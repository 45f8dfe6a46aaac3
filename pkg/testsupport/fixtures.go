package testsupport

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bookopts/pkg/codec"
	"github.com/goliatone/go-bookopts/pkg/entity"
	"github.com/goliatone/go-bookopts/pkg/session"
)

//go:embed testdata/*.yaml
var definitions embed.FS

// GUIDs of the entities seeded by the sample definitions.
const (
	USDGUID     = "5f0c1e2d3b4a59687766554433221100"
	SalesGUID   = "a0000000000000000000000000000001"
	RentGUID    = "a0000000000000000000000000000002"
	CurrentGUID = "a0000000000000000000000000000003"
)

// DefinitionsFS exposes the sample definition files.
func DefinitionsFS() fs.FS {
	sub, err := fs.Sub(definitions, "testdata")
	if err != nil {
		panic(err)
	}
	return sub
}

// WriteDefinitions copies the sample definitions into dir so tests can point
// path-based loaders at them.
func WriteDefinitions(t *testing.T, dir string) string {
	t.Helper()

	err := fs.WalkDir(DefinitionsFS(), ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil || entry.IsDir() {
			return walkErr
		}
		data, err := fs.ReadFile(DefinitionsFS(), path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, path), data, 0o644)
	})
	if err != nil {
		t.Fatalf("write definitions: %v", err)
	}
	return dir
}

// MustSession opens a session over the sample definitions. Extra options are
// applied after the definitions source.
func MustSession(t *testing.T, opts ...session.Option) *session.Session {
	t.Helper()

	all := append([]session.Option{session.WithDefinitionsFS(DefinitionsFS())}, opts...)
	s, err := session.Open(Context(), all...)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// MustEntity resolves a GUID seeded by the sample definitions.
func MustEntity(t *testing.T, book *entity.Book, guid string) entity.Entity {
	t.Helper()

	id, err := entity.ParseGUID(guid)
	if err != nil {
		t.Fatalf("parse guid: %v", err)
	}
	e, ok := book.Lookup(id)
	if !ok {
		t.Fatalf("entity %s not in book", guid)
	}
	return e
}

// EncodedValues encodes every option of the session, keyed "section/name".
func EncodedValues(t *testing.T, s *session.Session, profile codec.Profile) map[string]string {
	t.Helper()

	out := make(map[string]string)
	for _, o := range s.Options().All() {
		text, err := s.Codec().Encode(o, profile)
		if err != nil {
			t.Fatalf("encode %s/%s: %v", o.Section(), o.Name(), err)
		}
		out[o.Section()+"/"+o.Name()] = text
	}
	return out
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// MustReadGoldenJSON decodes a golden file into out.
func MustReadGoldenJSON(t *testing.T, path string, out any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
