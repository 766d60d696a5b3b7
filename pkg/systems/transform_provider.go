package systems

import (
	"github.com/decker502/embers/pkg/components"
	"github.com/decker502/embers/pkg/ecs"
)

// TransformProvider resolves the world transform of an entity.
type TransformProvider interface {
	WorldTransform(id ecs.EntityID) (components.TransformComponent, bool)
}

// maxHierarchyDepth bounds parent walks so a cycle cannot hang a frame.
const maxHierarchyDepth = 64

// HierarchyTransforms composes TransformComponents up the EntityManager's
// parent chain. Entities without a TransformComponent contribute identity.
type HierarchyTransforms struct {
	EntityManager *ecs.EntityManager
}

// NewHierarchyTransforms creates a provider backed by em.
func NewHierarchyTransforms(em *ecs.EntityManager) *HierarchyTransforms {
	return &HierarchyTransforms{EntityManager: em}
}

// WorldTransform implements TransformProvider. It reports false when the
// entity does not exist.
func (h *HierarchyTransforms) WorldTransform(id ecs.EntityID) (components.TransformComponent, bool) {
	em := h.EntityManager
	if !em.Exists(id) {
		return components.IdentityTransform(), false
	}

	world := localTransform(em, id)
	cur := id
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		parent, ok := em.Parent(cur)
		if !ok {
			break
		}
		world = localTransform(em, parent).Mul(world)
		cur = parent
	}
	return world, true
}

func localTransform(em *ecs.EntityManager, id ecs.EntityID) components.TransformComponent {
	if t, ok := ecs.GetComponent[*components.TransformComponent](em, id); ok {
		return *t
	}
	return components.IdentityTransform()
}
