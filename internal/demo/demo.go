// Package demo is a small self-contained schema used by the CLI and the
// end-to-end tests: a character catalog with an interface, a union, an enum,
// and a mix of synchronous and async fields.
package demo

import (
	"context"
	"fmt"
	"strings"

	executor "github.com/quillgraph/quillgraph/internal/executor"
	schema "github.com/quillgraph/quillgraph/internal/schema"
	value "github.com/quillgraph/quillgraph/internal/value"
)

// Episode is the enum of eras a character may appear in.
var episodes = []string{"NEWHOPE", "EMPIRE", "JEDI"}

// Human is a concrete character with a home planet.
type Human struct {
	ID         string
	Name       string
	HomePlanet string
	AppearsIn  []string
	FriendIDs  []string

	repo *Repo
}

// Droid is a concrete character with a primary function.
type Droid struct {
	ID              string
	Name            string
	PrimaryFunction string
	AppearsIn       []string
	FriendIDs       []string

	repo *Repo
}

// CharacterRef is an instance of the Character interface (and the
// SearchResult union): exactly one of its legs is set.
type CharacterRef struct {
	Human *Human
	Droid *Droid
}

func (c CharacterRef) variants() executor.Variants[value.Default] {
	return executor.Variants[value.Default]{
		{TypeName: "Human", Accessor: func(*executor.Executor[value.Default], executor.TypeInfo) (any, bool) {
			if c.Human != nil {
				return c.Human, true
			}
			return nil, false
		}},
		{TypeName: "Droid", Accessor: func(*executor.Executor[value.Default], executor.TypeInfo) (any, bool) {
			if c.Droid != nil {
				return c.Droid, true
			}
			return nil, false
		}},
	}
}

func (c CharacterRef) ConcreteTypeName(ex *executor.Executor[value.Default], info executor.TypeInfo) string {
	return c.variants().ConcreteTypeName(ex, info)
}

func (c CharacterRef) ResolveInto(ex *executor.Executor[value.Default], info executor.TypeInfo, typeName string) (executor.Instance[value.Default], bool) {
	return c.variants().ResolveInto(ex, info, typeName)
}

// Repo is the in-memory character catalog backing the root resolvers.
type Repo struct {
	humans map[string]*Human
	droids map[string]*Droid
	heroes map[string]CharacterRef // keyed by episode, "" is the default
}

// NewRepo builds the canonical catalog.
func NewRepo() *Repo {
	r := &Repo{
		humans: map[string]*Human{},
		droids: map[string]*Droid{},
		heroes: map[string]CharacterRef{},
	}
	add := func(h *Human) { h.repo = r; r.humans[h.ID] = h }
	addD := func(d *Droid) { d.repo = r; r.droids[d.ID] = d }

	add(&Human{ID: "1000", Name: "Luke Skywalker", HomePlanet: "Tatooine", AppearsIn: episodes, FriendIDs: []string{"1002", "1003", "2000", "2001"}})
	add(&Human{ID: "1001", Name: "Darth Vader", HomePlanet: "Tatooine", AppearsIn: episodes, FriendIDs: []string{"1004"}})
	add(&Human{ID: "1002", Name: "Han Solo", AppearsIn: episodes, FriendIDs: []string{"1000", "1003", "2001"}})
	add(&Human{ID: "1003", Name: "Leia Organa", HomePlanet: "Alderaan", AppearsIn: episodes, FriendIDs: []string{"1000", "1002", "2000", "2001"}})
	add(&Human{ID: "1004", Name: "Wilhuff Tarkin", AppearsIn: []string{"NEWHOPE"}, FriendIDs: []string{"1001"}})
	addD(&Droid{ID: "2000", Name: "C-3PO", PrimaryFunction: "Protocol", AppearsIn: episodes, FriendIDs: []string{"1000", "1002", "1003", "2001"}})
	addD(&Droid{ID: "2001", Name: "R2-D2", PrimaryFunction: "Astromech", AppearsIn: episodes, FriendIDs: []string{"1000", "1002", "1003"}})

	r.heroes[""] = CharacterRef{Droid: r.droids["2001"]}
	r.heroes["NEWHOPE"] = CharacterRef{Droid: r.droids["2001"]}
	r.heroes["EMPIRE"] = CharacterRef{Human: r.humans["1000"]}
	r.heroes["JEDI"] = CharacterRef{Droid: r.droids["2001"]}
	return r
}

func (r *Repo) character(id string) (CharacterRef, bool) {
	if h, ok := r.humans[id]; ok {
		return CharacterRef{Human: h}, true
	}
	if d, ok := r.droids[id]; ok {
		return CharacterRef{Droid: d}, true
	}
	return CharacterRef{}, false
}

func (r *Repo) friends(ids []string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		if ref, ok := r.character(id); ok {
			out = append(out, ref)
		}
	}
	return out
}

func episodeList(names []string) value.Value[value.Default] {
	items := make([]value.Value[value.Default], len(names))
	for i, n := range names {
		items[i] = value.Scalar(value.String(n))
	}
	return value.List(items)
}

func (h *Human) TypeName(executor.TypeInfo) string { return "Human" }

func (h *Human) BuildMeta(info executor.TypeInfo, s *schema.Schema) *schema.Type {
	return schema.NewType("Human", schema.TypeKindObject, "A humanoid creature in the catalog.").
		AddInterface("Character").
		AddField(schema.NewField("id", "The unique identifier.", schema.NonNullType(schema.NamedType("ID")))).
		AddField(schema.NewField("name", "The character's name.", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("homePlanet", "The home planet, if known.", schema.NamedType("String"))).
		AddField(schema.NewField("appearsIn", "", schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("Episode")))))).
		AddField(schema.NewField("friends", "", schema.ListType(schema.NonNullType(schema.NamedType("Character")))).SetAsync(true))
}

func (h *Human) ResolveField(ex *executor.Executor[value.Default], info executor.TypeInfo, field string, args executor.Arguments[value.Default]) (value.Value[value.Default], error) {
	switch field {
	case "id":
		return ex.Leaf("ID", h.ID)
	case "name":
		return ex.Leaf("String", h.Name)
	case "homePlanet":
		if h.HomePlanet == "" {
			return value.Null[value.Default](), nil
		}
		return ex.Leaf("String", h.HomePlanet)
	case "appearsIn":
		return episodeList(h.AppearsIn), nil
	}
	return value.Null[value.Default](), fmt.Errorf("Human has no field %q", field)
}

func (h *Human) ResolveFieldAsync(ctx context.Context, ex *executor.Executor[value.Default], info executor.TypeInfo, field string, args executor.Arguments[value.Default]) (value.Value[value.Default], error) {
	if field == "friends" {
		return ex.ResolveList("Character", h.repo.friends(h.FriendIDs)), nil
	}
	return value.Null[value.Default](), fmt.Errorf("Human has no async field %q", field)
}

func (d *Droid) TypeName(executor.TypeInfo) string { return "Droid" }

func (d *Droid) BuildMeta(info executor.TypeInfo, s *schema.Schema) *schema.Type {
	return schema.NewType("Droid", schema.TypeKindObject, "A mechanical creature in the catalog.").
		AddInterface("Character").
		AddField(schema.NewField("id", "The unique identifier.", schema.NonNullType(schema.NamedType("ID")))).
		AddField(schema.NewField("name", "The droid's name.", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("primaryFunction", "What the droid was built for.", schema.NamedType("String"))).
		AddField(schema.NewField("appearsIn", "", schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("Episode")))))).
		AddField(schema.NewField("friends", "", schema.ListType(schema.NonNullType(schema.NamedType("Character")))).SetAsync(true))
}

func (d *Droid) ResolveField(ex *executor.Executor[value.Default], info executor.TypeInfo, field string, args executor.Arguments[value.Default]) (value.Value[value.Default], error) {
	switch field {
	case "id":
		return ex.Leaf("ID", d.ID)
	case "name":
		return ex.Leaf("String", d.Name)
	case "primaryFunction":
		if d.PrimaryFunction == "" {
			return value.Null[value.Default](), nil
		}
		return ex.Leaf("String", d.PrimaryFunction)
	case "appearsIn":
		return episodeList(d.AppearsIn), nil
	}
	return value.Null[value.Default](), fmt.Errorf("Droid has no field %q", field)
}

func (d *Droid) ResolveFieldAsync(ctx context.Context, ex *executor.Executor[value.Default], info executor.TypeInfo, field string, args executor.Arguments[value.Default]) (value.Value[value.Default], error) {
	if field == "friends" {
		return ex.ResolveList("Character", d.repo.friends(d.FriendIDs)), nil
	}
	return value.Null[value.Default](), fmt.Errorf("Droid has no async field %q", field)
}

// Query is the root resolver over a Repo.
type Query struct {
	Repo *Repo
}

func (q Query) TypeName(executor.TypeInfo) string { return "Query" }

func (q Query) BuildMeta(info executor.TypeInfo, s *schema.Schema) *schema.Type {
	return schema.NewType("Query", schema.TypeKindObject, "").
		AddField(schema.NewField("hero", "The hero of an episode, or of the whole saga.", schema.NamedType("Character")).
			AddArgument(schema.NewInputValue("episode", "", schema.NamedType("Episode")))).
		AddField(schema.NewField("human", "", schema.NamedType("Human")).
			AddArgument(schema.NewInputValue("id", "", schema.NonNullType(schema.NamedType("ID")))).
			SetAsync(true)).
		AddField(schema.NewField("droid", "", schema.NamedType("Droid")).
			AddArgument(schema.NewInputValue("id", "", schema.NonNullType(schema.NamedType("ID"))))).
		AddField(schema.NewField("search", "Characters whose name contains the text.", schema.ListType(schema.NonNullType(schema.NamedType("SearchResult")))).
			AddArgument(schema.NewInputValue("text", "", schema.NonNullType(schema.NamedType("String")))).
			SetAsync(true)).
		AddField(schema.NewField("humans", "", schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("Human"))))))
}

func (q Query) ResolveField(ex *executor.Executor[value.Default], info executor.TypeInfo, field string, args executor.Arguments[value.Default]) (value.Value[value.Default], error) {
	switch field {
	case "hero":
		episode, _ := args.String("episode")
		ref, ok := q.Repo.heroes[episode]
		if !ok {
			ref = q.Repo.heroes[""]
		}
		return ex.ResolveObject("Character", ref), nil
	case "droid":
		id, _ := args.String("id")
		d, ok := q.Repo.droids[id]
		if !ok {
			return value.Null[value.Default](), fmt.Errorf("no droid with id %q", id)
		}
		return ex.ResolveObject("Droid", d), nil
	case "humans":
		ids := []string{"1000", "1001", "1002", "1003", "1004"}
		items := make([]any, len(ids))
		for i, id := range ids {
			items[i] = q.Repo.humans[id]
		}
		return ex.ResolveList("Human", items), nil
	}
	return value.Null[value.Default](), fmt.Errorf("Query has no field %q", field)
}

func (q Query) ResolveFieldAsync(ctx context.Context, ex *executor.Executor[value.Default], info executor.TypeInfo, field string, args executor.Arguments[value.Default]) (value.Value[value.Default], error) {
	switch field {
	case "human":
		id, _ := args.String("id")
		h, ok := q.Repo.humans[id]
		if !ok {
			return value.Null[value.Default](), fmt.Errorf("no human with id %q", id)
		}
		return ex.ResolveObject("Human", h), nil
	case "search":
		text, _ := args.String("text")
		var out []any
		for _, id := range []string{"1000", "1001", "1002", "1003", "1004", "2000", "2001"} {
			ref, _ := q.Repo.character(id)
			name := ""
			if ref.Human != nil {
				name = ref.Human.Name
			} else if ref.Droid != nil {
				name = ref.Droid.Name
			}
			if text != "" && strings.Contains(strings.ToLower(name), strings.ToLower(text)) {
				out = append(out, ref)
			}
		}
		return ex.ResolveList("SearchResult", out), nil
	}
	return value.Null[value.Default](), fmt.Errorf("Query has no async field %q", field)
}

// NewSchema assembles the catalog schema.
func NewSchema() *schema.Schema {
	s := schema.NewSchema("Character catalog demo schema")

	episode := schema.NewType("Episode", schema.TypeKindEnum, "The eras of the saga.")
	for _, e := range episodes {
		episode.AddEnumValue(schema.NewEnumValue(e, ""))
	}
	s.AddType(episode)

	s.AddType(schema.NewType("Character", schema.TypeKindInterface, "A character in the catalog.").
		AddPossibleType("Human").
		AddPossibleType("Droid").
		AddField(schema.NewField("id", "", schema.NonNullType(schema.NamedType("ID")))).
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("appearsIn", "", schema.NonNullType(schema.ListType(schema.NonNullType(schema.NamedType("Episode")))))).
		AddField(schema.NewField("friends", "", schema.ListType(schema.NonNullType(schema.NamedType("Character")))).SetAsync(true)))

	s.AddType(schema.NewType("SearchResult", schema.TypeKindUnion, "Anything the search can return.").
		AddPossibleType("Human").
		AddPossibleType("Droid"))

	executor.RegisterType(s, &Human{}, nil)
	executor.RegisterType(s, &Droid{}, nil)
	executor.RegisterType(s, Query{}, nil)
	s.SetQueryType("Query")
	return s
}

// NewEngine builds an engine over the catalog schema with the builtin
// scalar kinds.
func NewEngine() (*executor.Engine[value.Default], Query) {
	repo := NewRepo()
	return executor.NewEngine(NewSchema(), executor.DefaultScalars()), Query{Repo: repo}
}
