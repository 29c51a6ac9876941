package rules

import (
	"astral/internal/core/config"
	"astral/internal/engine/ast"
)

const (
	NoNullableArrayPropertyID = "no-nullable-array-property"

	noNullableArrayPropertyMessage = "Use required typed property over of nullable property"
)

// NoNullableArrayProperty reports properties typed exactly `?array`.
type NoNullableArrayProperty struct{}

func newNoNullableArrayProperty(*config.Config, Services) (Rule, error) {
	return NoNullableArrayProperty{}, nil
}

func (NoNullableArrayProperty) ID() string { return NoNullableArrayPropertyID }

func (NoNullableArrayProperty) NodeKinds() []ast.Kind {
	return []ast.Kind{ast.KindPropertyDeclaration}
}

func (NoNullableArrayProperty) Process(n ast.Node) []string {
	typ := n.Child(ast.RoleType)
	if !typ.Is(ast.KindNullableType) {
		return nil
	}
	inner := typ.Child(ast.RoleType)
	if !inner.Is(ast.KindIdentifier) || inner.Value() != "array" {
		return nil
	}
	return []string{noNullableArrayPropertyMessage}
}

func (NoNullableArrayProperty) Definition() Definition {
	return Definition{
		Description: noNullableArrayPropertyMessage,
		Samples: []CodeSample{{
			Bad: `final class SomeClass
{
    private ?array $property = null;
}`,
			Good: `final class SomeClass
{
    private array $property;
}`,
		}},
	}
}
