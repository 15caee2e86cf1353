package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Selection holds the schema definition for the Selection entity. The state
// field mirrors the lifecycle: three staged states plus committed.
type Selection struct {
	ent.Schema
}

// Fields of the Selection.
func (Selection) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("selection_id").
			Unique().
			Immutable(),
		field.String("document_id").
			NotEmpty(),
		field.Float("x").Default(0),
		field.Float("y").Default(0),
		field.Float("width").Default(0),
		field.Float("height").Default(0),
		field.Int("page_number").
			Optional().
			Nillable(),
		field.Float("confidence").
			Optional().
			Nillable(),
		field.Enum("scope").
			Values("document", "project").
			Default("document"),
		field.Enum("state").
			Values("staged_creation", "staged_edition", "staged_deletion", "committed"),
		field.Time("created_at").
			Default(time.Now),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Selection.
func (Selection) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("document", Document.Type).
			Ref("selections").
			Unique(),
	}
}

// Indexes of the Selection.
func (Selection) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id"),
		index.Fields("document_id", "state"),
	}
}
