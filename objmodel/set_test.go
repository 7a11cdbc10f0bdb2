package objmodel_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	objmodel "github.com/ontoforge/shaclgen/objmodel"
)

func decode(t *testing.T, doc string) objmodel.SHACLObjectSet {
	t.Helper()
	set := newTestObjectSet()
	require.NoError(t, set.Decode(strings.NewReader(doc)))
	return set
}

func TestDecode_Graph(t *testing.T) {
	set := decode(t, `{
		"@context": "https://example.com/shapes/context.json",
		"@graph": [
			{
				"@type": "Box",
				"@id": "https://example.com/box/a",
				"label": "A",
				"width": 3,
				"color": "https://example.com/Color/red",
				"lid": "https://example.com/box/b",
				"children": [
					{"@type": "Box", "width": 2},
					"https://example.com/box/b"
				]
			},
			{
				"@type": "https://example.com/Box",
				"@id": "https://example.com/box/b",
				"width": 1.0
			}
		]
	}`)

	require.Len(t, set.Objects(), 2)

	obj, ok := set.GetObject("https://example.com/box/a")
	require.True(t, ok)
	a, ok := obj.(Box)
	require.True(t, ok)

	assert.Equal(t, "A", a.Label().Get())
	assert.Equal(t, 3, a.Width().Get())
	assert.Equal(t, ColorRed, a.Color().Get())

	// The bare identity resolved to the sibling node.
	require.True(t, a.Lid().IsObj())
	assert.Equal(t, 1, a.Lid().GetObj().Width().Get())

	children := a.Children().Get()
	require.Len(t, children, 2)
	require.True(t, children[0].IsObj())
	nested, ok := children[0].GetObj().(Box)
	require.True(t, ok)
	assert.Equal(t, 2, nested.Width().Get())
	// Nested nodes without an @id get a fresh blank label.
	assert.True(t, objmodel.IsBlankNode(nested.ID().Get()))
	require.True(t, children[1].IsObj())
	assert.Equal(t, "https://example.com/box/b", children[1].GetIRI())

	assert.True(t, set.Validate(nil))
}

func TestDecode_SingleNode(t *testing.T) {
	set := decode(t, `{
		"@context": "https://example.com/shapes/context.json",
		"@type": "Box",
		"@id": "https://example.com/box/solo",
		"width": 4
	}`)
	require.Len(t, set.Objects(), 1)
	assert.Equal(t, "https://example.com/box/solo", set.Objects()[0].ID().Get())
}

func TestDecode_UnresolvedReferenceStaysIRI(t *testing.T) {
	set := decode(t, `{
		"@context": "https://example.com/shapes/context.json",
		"@type": "Box",
		"@id": "https://example.com/box/a",
		"width": 1,
		"lid": "https://example.com/box/elsewhere"
	}`)
	a := set.Objects()[0].(Box)
	assert.True(t, a.Lid().IsIRI())
	assert.False(t, a.Lid().IsObj())
	assert.Equal(t, "https://example.com/box/elsewhere", a.Lid().GetIRI())
	// Dangling references are not validation errors.
	assert.True(t, set.Validate(nil))
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "missing context",
			doc:  `{"@type": "Box", "width": 1}`,
			want: "'@context' missing",
		},
		{
			name: "wrong context",
			doc:  `{"@context": "https://example.com/other.json", "@type": "Box", "width": 1}`,
			want: "wrong context URL",
		},
		{
			name: "missing type",
			doc:  `{"@context": "https://example.com/shapes/context.json", "width": 1}`,
			want: "'@type' missing",
		},
		{
			name: "unknown type",
			doc:  `{"@context": "https://example.com/shapes/context.json", "@type": "Sphere"}`,
			want: "unknown type",
		},
		{
			name: "abstract type",
			doc:  `{"@context": "https://example.com/shapes/context.json", "@type": "Shape"}`,
			want: "abstract",
		},
		{
			name: "unknown property",
			doc:  `{"@context": "https://example.com/shapes/context.json", "@type": "Box", "girth": 1}`,
			want: "unknown property",
		},
		{
			name: "non-integral float",
			doc:  `{"@context": "https://example.com/shapes/context.json", "@type": "Box", "width": 1.5}`,
			want: "non-integral",
		},
		{
			name: "boolean for integer",
			doc:  `{"@context": "https://example.com/shapes/context.json", "@type": "Box", "width": true}`,
			want: "expected integer",
		},
		{
			name: "scalar where list expected",
			doc:  `{"@context": "https://example.com/shapes/context.json", "@type": "Box", "children": {"@type": "Box"}}`,
			want: "expected list",
		},
		{
			name: "malformed json",
			doc:  `{"@context"`,
			want: "malformed JSON",
		},
		{
			name: "duplicate identity",
			doc: `{
				"@context": "https://example.com/shapes/context.json",
				"@graph": [
					{"@type": "Box", "@id": "https://example.com/box/a", "width": 1},
					{"@type": "Box", "@id": "https://example.com/box/a", "width": 2}
				]
			}`,
			want: "duplicate identity",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := newTestObjectSet()
			err := set.Decode(strings.NewReader(tc.doc))
			require.Error(t, err)
			var de *objmodel.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDecode_StructuralOnly_ValidateCatches(t *testing.T) {
	// width 0 violates its minimum but decodes fine; Validate reports it.
	set := decode(t, `{
		"@context": "https://example.com/shapes/context.json",
		"@type": "Box",
		"@id": "https://example.com/box/a",
		"width": 0
	}`)

	a := set.Objects()[0].(Box)
	assert.Equal(t, 0, a.Width().Get())

	collector := &objmodel.ErrorCollector{}
	assert.False(t, set.Validate(&objmodel.ValidateOptions{Handler: collector}))
	require.NotEmpty(t, collector.Errors)

	// Fixing the value through the validated setter restores the graph.
	require.NoError(t, a.Width().Set(5))
	assert.True(t, set.Validate(nil))
}

func TestValidate_RequiredProperty(t *testing.T) {
	set := newTestObjectSet()
	a := MakeBox()
	require.NoError(t, a.ID().Set("https://example.com/box/a"))
	set.AddObject(a)

	collector := &objmodel.ErrorCollector{}
	assert.False(t, set.Validate(&objmodel.ValidateOptions{Handler: collector}))
	require.Len(t, collector.Errors, 1)
	var ve *objmodel.ValidationError
	require.ErrorAs(t, collector.Errors[0], &ve)
	assert.Equal(t, "width", ve.Property)

	require.NoError(t, a.Width().Set(1))
	assert.True(t, set.Validate(nil))
}

func TestValidate_RootOnly(t *testing.T) {
	set := newTestObjectSet()

	good := MakeBox()
	require.NoError(t, good.Width().Set(1))
	bad := MakeBox() // width never set
	require.NoError(t, good.Lid().Set(objmodel.MakeObjectRef(bad)))
	set.AddObject(good)
	set.AddObject(bad)

	// Whole-set validation sees the bad instance.
	assert.False(t, set.Validate(nil))
	// Root-scoped validation checks exactly the named instance's own
	// properties, not the graph reachable from it.
	assert.True(t, set.Validate(&objmodel.ValidateOptions{Root: good}))
	assert.False(t, set.Validate(&objmodel.ValidateOptions{Root: bad}))
}

func TestSetter_ImmediateValidation(t *testing.T) {
	a := MakeBox()

	err := a.Width().Set(0)
	require.Error(t, err)
	var ve *objmodel.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.False(t, a.Width().IsSet())

	require.NoError(t, a.Width().Set(2))
	assert.Equal(t, 2, a.Width().Get())

	err = a.Color().Set("https://example.com/Color/mauve")
	require.Error(t, err)
	require.NoError(t, a.Color().Set(ColorGreen))

	err = a.ID().Set("not an iri")
	require.Error(t, err)
	require.NoError(t, a.ID().Set("_:local"))
}

func TestEncode_RoundTrip(t *testing.T) {
	set := decode(t, `{
		"@context": "https://example.com/shapes/context.json",
		"@graph": [
			{
				"@type": "Box",
				"@id": "https://example.com/box/a",
				"label": "A",
				"width": 3,
				"lid": "https://example.com/box/b"
			},
			{
				"@type": "Box",
				"@id": "https://example.com/box/b",
				"width": 1
			}
		]
	}`)

	var buf bytes.Buffer
	require.NoError(t, set.Encode(&buf))

	again := newTestObjectSet()
	require.NoError(t, again.Decode(bytes.NewReader(buf.Bytes())))
	require.Len(t, again.Objects(), 2)

	obj, ok := again.GetObject("https://example.com/box/a")
	require.True(t, ok)
	a := obj.(Box)
	assert.Equal(t, "A", a.Label().Get())
	assert.Equal(t, 3, a.Width().Get())
	require.True(t, a.Lid().IsObj())
	assert.Equal(t, 1, a.Lid().GetObj().Width().Get())
}

func TestEncode_SetMembersByIdentity(t *testing.T) {
	// Both instances are set members, so the reference between them must
	// encode as a bare identity string, not a nested node.
	set := decode(t, `{
		"@context": "https://example.com/shapes/context.json",
		"@graph": [
			{"@type": "Box", "@id": "https://example.com/box/a", "width": 1, "lid": "https://example.com/box/b"},
			{"@type": "Box", "@id": "https://example.com/box/b", "width": 2}
		]
	}`)

	var buf bytes.Buffer
	require.NoError(t, set.Encode(&buf))
	out := buf.String()
	assert.Contains(t, out, `"lid":"https://example.com/box/b"`)
	assert.Contains(t, out, `"@graph"`)
}

func TestEncode_NestsUnownedObjectsOnce(t *testing.T) {
	set := newTestObjectSet()
	a := MakeBox()
	require.NoError(t, a.ID().Set("https://example.com/box/a"))
	require.NoError(t, a.Width().Set(1))

	inner := MakeBox()
	require.NoError(t, inner.ID().Set("https://example.com/box/inner"))
	require.NoError(t, inner.Width().Set(2))
	require.NoError(t, a.Lid().Set(objmodel.MakeObjectRef(inner)))
	set.AddObject(a)

	var buf bytes.Buffer
	require.NoError(t, set.Encode(&buf))
	out := buf.String()
	// Single-member set encodes flattened, with the inner node nested at its
	// first (only) encounter.
	assert.NotContains(t, out, `"@graph"`)
	assert.Contains(t, out, `"lid":{`)
	assert.Contains(t, out, `"width":2`)
}

func TestEncode_IdentityKeepsFullIRI(t *testing.T) {
	// The identity of an instance is never compacted, even when the context
	// maps it, since decode reads @id verbatim. References to set members use
	// the same verbatim form.
	set := decode(t, `{
		"@context": "https://example.com/shapes/context.json",
		"@graph": [
			{"@type": "Box", "@id": "https://example.com/box/a", "width": 1, "lid": "https://example.com/Box"},
			{"@type": "Box", "@id": "https://example.com/Box", "width": 2}
		]
	}`)

	var buf bytes.Buffer
	require.NoError(t, set.Encode(&buf))
	out := buf.String()
	assert.Contains(t, out, `"@id":"https://example.com/Box"`)
	assert.Contains(t, out, `"lid":"https://example.com/Box"`)

	again := newTestObjectSet()
	require.NoError(t, again.Decode(bytes.NewReader(buf.Bytes())))
	obj, ok := again.GetObject("https://example.com/Box")
	require.True(t, ok)
	assert.Equal(t, 2, obj.(Box).Width().Get())
	assert.True(t, again.Validate(nil))
}

func TestEncode_Deterministic(t *testing.T) {
	doc := `{
		"@context": "https://example.com/shapes/context.json",
		"@graph": [
			{"@type": "Box", "@id": "https://example.com/box/a", "width": 1, "label": "x"},
			{"@type": "Box", "@id": "https://example.com/box/b", "width": 2}
		]
	}`
	set := decode(t, doc)

	var first, second bytes.Buffer
	require.NoError(t, set.Encode(&first))
	require.NoError(t, set.Encode(&second))
	assert.Equal(t, first.String(), second.String())
}

func TestEncode_CompactTermsAndContext(t *testing.T) {
	set := decode(t, `{
		"@context": "https://example.com/shapes/context.json",
		"@type": "https://example.com/Box",
		"@id": "https://example.com/box/a",
		"https://example.com/Box/width": 1
	}`)

	var buf bytes.Buffer
	require.NoError(t, set.Encode(&buf))
	out := buf.String()
	assert.Contains(t, out, `"@context":"https://example.com/shapes/context.json"`)
	// Property keys compact through the context regardless of the form the
	// document used.
	assert.Contains(t, out, `"width":1`)
}

func TestWalk_VisitsObjectsOnce(t *testing.T) {
	set := decode(t, `{
		"@context": "https://example.com/shapes/context.json",
		"@graph": [
			{"@type": "Box", "@id": "https://example.com/box/a", "width": 1, "lid": "https://example.com/box/b"},
			{"@type": "Box", "@id": "https://example.com/box/b", "width": 2, "lid": "https://example.com/box/a"}
		]
	}`)

	seen := map[string]int{}
	set.Walk(func(path objmodel.Path, v any) {
		if r, ok := v.(objmodel.Ref[objmodel.SHACLObject]); ok && r.IsObj() {
			seen[r.GetObj().ID().Get()]++
		}
	})
	// The reference cycle terminates and each object is visited once.
	assert.Equal(t, 1, seen["https://example.com/box/a"])
	assert.Equal(t, 1, seen["https://example.com/box/b"])
}

func TestGetObject(t *testing.T) {
	set := newTestObjectSet()
	a := MakeBox()
	require.NoError(t, a.ID().Set("https://example.com/box/a"))
	set.AddObject(a)

	got, ok := set.GetObject("https://example.com/box/a")
	require.True(t, ok)
	assert.Same(t, any(a), any(got))

	_, ok = set.GetObject("https://example.com/box/missing")
	assert.False(t, ok)
}
