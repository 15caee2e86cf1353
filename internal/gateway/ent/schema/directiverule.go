package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DirectiveRule holds the schema definition for the DirectiveRule entity.
type DirectiveRule struct {
	ent.Schema
}

// Fields of the DirectiveRule.
func (DirectiveRule) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("rule_id").
			Unique().
			Immutable(),
		field.String("document_id").
			NotEmpty(),
		field.Text("text").
			StorageKey("rule_text").
			Default(""),
		field.Bool("approved").
			Default(false),
		field.Int("position").
			Default(0),
		field.Time("created_at").
			Default(time.Now),
	}
}

// Edges of the DirectiveRule.
func (DirectiveRule) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("document", Document.Type).
			Ref("directive_rules").
			Unique(),
	}
}

// Indexes of the DirectiveRule.
func (DirectiveRule) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id"),
	}
}
