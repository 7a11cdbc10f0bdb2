package objmodel

import (
	"fmt"
	"io"
	"sort"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// SHACLObjectSet owns a collection of object instances keyed by identity,
// preserving insertion order for deterministic re-encoding.
type SHACLObjectSet interface {
	AddObject(o SHACLObject)
	Objects() []SHACLObject
	// GetObject looks an instance up by IRI or blank node label.
	GetObject(id string) (SHACLObject, bool)
	Decode(r io.Reader) error
	Encode(w io.Writer) error
	Walk(visit Visit)
	Validate(opts *ValidateOptions) bool
}

// ValidateOptions restricts a validation pass.
type ValidateOptions struct {
	// Root, when set, validates exactly that instance's own properties
	// instead of the whole set.
	Root SHACLObject
	// Handler receives every violation. May be nil when only the pass/fail
	// answer matters.
	Handler ErrorHandler
}

// ObjectSetConfig binds a set to the context document its documents use.
type ObjectSetConfig struct {
	// ContextURL is required as the "@context" value of decoded documents
	// and is embedded in encoded ones.
	ContextURL string
	// Terms maps full IRIs to their compact context terms.
	Terms map[string]string
}

// ObjectSet is the SHACLObjectSet implementation. Generated packages wrap its
// constructor with the schema's context baked in.
type ObjectSet struct {
	contextURL string
	iriToTerm  map[string]string
	termToIRI  map[string]string
	objects    []SHACLObject
	index      map[string]SHACLObject
}

// NewObjectSet builds an empty set.
func NewObjectSet(cfg ObjectSetConfig) *ObjectSet {
	s := &ObjectSet{
		contextURL: cfg.ContextURL,
		iriToTerm:  cfg.Terms,
		termToIRI:  make(map[string]string, len(cfg.Terms)),
		index:      make(map[string]SHACLObject),
	}
	for iri, term := range cfg.Terms {
		s.termToIRI[term] = iri
	}
	return s
}

// AddObject appends an instance to the set and indexes its identity.
func (s *ObjectSet) AddObject(o SHACLObject) {
	s.objects = append(s.objects, o)
	if o.ID().IsSet() {
		s.index[o.ID().Get()] = o
	}
}

// Objects returns the contained instances in insertion order.
func (s *ObjectSet) Objects() []SHACLObject { return s.objects }

// GetObject looks an instance up by identity.
func (s *ObjectSet) GetObject(id string) (SHACLObject, bool) {
	o, ok := s.index[id]
	return o, ok
}

// Decode reads one JSON-LD document from r and materializes its node objects
// into the set using the two-pass algorithm: every node is first constructed
// with its identity and scalar properties, then deferred reference slots are
// resolved against the identities collected in the first pass. Identities
// that never appear stay bare IRI references. Two nodes carrying the same
// identity are a DecodeError.
//
// Decode is structural only. Call Validate to check constraints.
func (s *ObjectSet) Decode(r io.Reader) error {
	var data map[string]any
	if err := gojson.NewDecoder(r).Decode(&data); err != nil {
		return &DecodeError{Path{}, "malformed JSON: " + err.Error()}
	}

	path := Path{}
	ctx, ok := data["@context"]
	if s.contextURL == "" {
		if ok {
			return &DecodeError{path.Push("@context"), "document carries a context but the model has none"}
		}
	} else {
		if !ok {
			return &DecodeError{path, "'@context' missing"}
		}
		ctxURL, isStr := ctx.(string)
		if !isStr {
			return &DecodeError{path.Push("@context"), "'@context' must be a string"}
		}
		if ctxURL != s.contextURL {
			return &DecodeError{path.Push("@context"), "wrong context URL '" + ctxURL + "'"}
		}
		delete(data, "@context")
	}

	rc := &ResolveContext{set: s}

	if graph, hasGraph := data["@graph"]; hasGraph {
		for _, k := range sortedKeys(data) {
			if k != "@graph" {
				return &DecodeError{path, "unknown document key '" + k + "'"}
			}
		}
		nodes, ok := graph.([]any)
		if !ok {
			return &DecodeError{path.Push("@graph"), "'@graph' must be a list"}
		}
		gp := path.Push("@graph")
		for i, n := range nodes {
			node, ok := n.(map[string]any)
			if !ok {
				return &DecodeError{gp.Index(i), fmt.Sprintf("expected node object, got %T", n)}
			}
			obj, err := rc.materialize(node, gp.Index(i), nil)
			if err != nil {
				return err
			}
			s.objects = append(s.objects, obj)
		}
	} else {
		obj, err := rc.materialize(data, path, nil)
		if err != nil {
			return err
		}
		s.objects = append(s.objects, obj)
	}

	return rc.resolve()
}

// Encode writes the set to w as one JSON-LD document: a single node object,
// or a "@graph" array in stored order. Every set member is referenced by
// identity from property values; only instances held exclusively through
// object references are nested. Encode never validates.
func (s *ObjectSet) Encode(w io.Writer) error {
	state := newEncodeState(s.iriToTerm)
	for _, o := range s.objects {
		state.mark(o)
	}

	data := make(map[string]any)
	if s.contextURL != "" {
		data["@context"] = s.contextURL
	}
	path := Path{}

	switch len(s.objects) {
	case 0:
	case 1:
		if err := s.objects[0].EncodeProperties(data, path, state); err != nil {
			return err
		}
	default:
		gp := path.Push("@graph")
		graph := make([]any, 0, len(s.objects))
		for i, o := range s.objects {
			node := make(map[string]any)
			if err := o.EncodeProperties(node, gp.Index(i), state); err != nil {
				return err
			}
			graph = append(graph, node)
		}
		data["@graph"] = graph
	}

	return gojson.NewEncoder(w).Encode(data)
}

// Walk visits every property value reachable from the set's instances,
// following object references once each.
func (s *ObjectSet) Walk(visit Visit) {
	visited := make(map[SHACLObject]bool)

	var proxy Visit
	proxy = func(path Path, v any) {
		r, ok := v.(Ref[SHACLObject])
		if !ok {
			visit(path, v)
			return
		}
		if !r.IsObj() {
			visit(path, v)
			return
		}
		obj := r.GetObj()
		if visited[obj] {
			return
		}
		visited[obj] = true
		visit(path, v)
		obj.Walk(path, proxy)
	}

	path := Path{}
	for i, o := range s.objects {
		proxy(path.Index(i), MakeObjectRef(o))
	}
}

// Validate checks every contained instance, or only opts.Root when given,
// re-applying each property's constraint validators and required-cardinality
// checks. An empty set passes. Violations go to opts.Handler when set;
// validation is advisory and never mutates the set.
func (s *ObjectSet) Validate(opts *ValidateOptions) bool {
	var handler ErrorHandler
	if opts != nil {
		handler = opts.Handler
	}

	if opts != nil && opts.Root != nil {
		return opts.Root.Validate(Path{}, handler)
	}

	valid := true
	s.Walk(func(path Path, v any) {
		r, ok := v.(Ref[SHACLObject])
		if !ok || !r.IsObj() {
			return
		}
		if !r.GetObj().Validate(path, handler) {
			valid = false
		}
	})
	return valid
}

// ResolveContext carries decode state across the materialize and resolve
// passes: the set being populated and the deferred reference bindings.
type ResolveContext struct {
	set      *ObjectSet
	deferred []func() error
}

func (rc *ResolveContext) deferBind(f func() error) {
	rc.deferred = append(rc.deferred, f)
}

func (rc *ResolveContext) lookup(id string) (SHACLObject, bool) {
	o, ok := rc.set.index[id]
	return o, ok
}

func (rc *ResolveContext) expand(term string) string {
	if iri, ok := rc.set.termToIRI[term]; ok {
		return iri
	}
	return term
}

// materialize performs the first decode pass for one node object: type
// resolution, construction, identity assignment and property population.
// Reference-valued properties enqueue their binding for the resolve pass.
func (rc *ResolveContext) materialize(node map[string]any, path Path, want Type) (SHACLObject, error) {
	rawType, ok := node["@type"]
	if !ok {
		return nil, &DecodeError{path, "'@type' missing"}
	}
	typeIRI, ok := rawType.(string)
	if !ok {
		return nil, &DecodeError{path.Push("@type"), fmt.Sprintf("'@type' must be a string, got %T", rawType)}
	}

	typ, ok := LookupType(typeIRI)
	if !ok {
		return nil, &DecodeError{path.Push("@type"), "unknown type '" + typeIRI + "'"}
	}
	if typ.Abstract() {
		return nil, &DecodeError{path.Push("@type"), "cannot instantiate abstract type '" + typeIRI + "'"}
	}
	if want != nil && !typ.IsSubTypeOf(want.TypeIRI()) {
		return nil, &DecodeError{path.Push("@type"),
			"type '" + typeIRI + "' is not valid where '" + want.TypeIRI() + "' is expected"}
	}

	obj := typ.New()
	obj.SetType(typ)
	obj.SetTypeIRI(typeIRI)

	for _, k := range sortedKeys(node) {
		if k == "@type" {
			continue
		}
		found, err := typ.DecodeProperty(obj, k, node[k], path.Push(k), rc)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &DecodeError{path, "unknown property '" + k + "'"}
		}
	}

	if !obj.ID().IsSet() {
		obj.ID().(*Property[string]).setRaw(newBlankLabel())
	}
	id := obj.ID().Get()
	if _, dup := rc.set.index[id]; dup {
		return nil, &DecodeError{path.Push("@id"), "duplicate identity '" + id + "'"}
	}
	rc.set.index[id] = obj
	return obj, nil
}

// resolve runs the second pass, binding every deferred reference.
func (rc *ResolveContext) resolve() error {
	for _, bind := range rc.deferred {
		if err := bind(); err != nil {
			return err
		}
	}
	rc.deferred = nil
	return nil
}

// EncodeState tracks one encode call: the compaction terms and which objects
// have already been emitted, so later encounters become bare identities.
type EncodeState struct {
	terms   map[string]string
	emitted map[SHACLObject]bool
}

func newEncodeState(terms map[string]string) *EncodeState {
	return &EncodeState{terms: terms, emitted: make(map[SHACLObject]bool)}
}

func (st *EncodeState) compact(iri string) string {
	if term, ok := st.terms[iri]; ok {
		return term
	}
	return iri
}

// Term compacts an IRI through the context, falling back to the IRI itself.
// Generated EncodeProperties implementations use it for property keys.
func (st *EncodeState) Term(iri string) string { return st.compact(iri) }

func (st *EncodeState) mark(o SHACLObject)        { st.emitted[o] = true }
func (st *EncodeState) marked(o SHACLObject) bool { return st.emitted[o] }

func newBlankLabel() string { return "_:" + uuid.NewString() }

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
